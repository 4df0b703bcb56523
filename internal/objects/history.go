package objects

import (
	"errors"
	"fmt"
)

// ErrStopWalk can be returned by a WalkHistory visitor to end the walk early without error.
var ErrStopWalk = errors.New("stop history walk")

// WalkHistory visits the commit at start and then each first parent in turn until a
// root commit is reached. A missing or unparseable commit ends the walk with an error.
func WalkHistory(store *ObjectStore, start string, visit func(*Commit) error) error {
	for hash := start; hash != ""; {
		commit, err := store.ReadCommit(hash)
		if err != nil {
			return fmt.Errorf("failed to walk history at %s: %w", hash, err)
		}

		if err := visit(commit); err != nil {
			if errors.Is(err, ErrStopWalk) {
				return nil
			}
			return err
		}
		hash = commit.ParentHash()
	}
	return nil
}

package objects

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/utils"
)

// now is the clock read for commits whose author carries no timestamp.
var now = time.Now

// Represents commit author/committer
type Author struct {
	Name      string
	Email     string
	Timestamp time.Time
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>",
		a.Name,
		a.Email)
}

// Represents a snapshot of the repository
type Commit struct {
	hash       string
	treeHash   string
	parentHash string
	author     Author
	committer  Author
	message    string
}

// NewCommit builds a commit of treeHash on top of parentHash (empty for a root commit).
// The author is also recorded as committer; its timestamp is stored in whole seconds, UTC.
// A zero timestamp means the commit is made now.
func NewCommit(treeHash, parentHash, message string, author Author) (*Commit, error) {
	if err := ValidateHash(treeHash); err != nil {
		return nil, fmt.Errorf("invalid tree hash for commit: %w", err)
	}
	if parentHash != "" {
		if err := ValidateHash(parentHash); err != nil {
			return nil, fmt.Errorf("invalid parent hash for commit: %w", err)
		}
	}
	if strings.ContainsAny(author.Name, "<>\n") || strings.ContainsAny(author.Email, "<>\n") {
		return nil, fmt.Errorf("invalid author identity: %q", author.String())
	}

	if author.Timestamp.IsZero() {
		author.Timestamp = now()
	}
	author.Timestamp = author.Timestamp.UTC().Truncate(time.Second)
	commit := &Commit{
		treeHash:   treeHash,
		parentHash: parentHash,
		author:     author,
		committer:  author,
		message:    message,
	}

	hash, err := utils.ComputeHash(commit.Content(), utils.CommitObjectType)
	if err != nil {
		return nil, fmt.Errorf("failed to compute hash for commit: %w", err)
	}
	commit.hash = hash

	return commit, nil
}

func NewInitialCommit(treeHash, message string, author Author) (*Commit, error) {
	return NewCommit(treeHash, "", message, author)
}

// EncodeCommit returns the commit as an in-memory object ready to be stored.
func EncodeCommit(treeHash, parentHash string, author Author, message string) (*Object, error) {
	commit, err := NewCommit(treeHash, parentHash, message, author)
	if err != nil {
		return nil, err
	}
	return commit.Object(), nil
}

func buildCommitContent(treeHash, parentHash, message string, author, committer Author) []byte {
	var buf bytes.Buffer

	// Tree reference
	fmt.Fprintf(&buf, "%s%s\n", constants.CommitTreePrefix, treeHash)

	// A root commit has no parent line at all
	if parentHash != "" {
		fmt.Fprintf(&buf, "%s%s\n", constants.CommitParentPrefix, parentHash)
	}

	fmt.Fprintf(&buf, "%s%s\n", constants.CommitAuthorPrefix, formatSignature(author))
	fmt.Fprintf(&buf, "%s%s\n", constants.CommitCommitterPrefix, formatSignature(committer))

	// Blank line before message
	buf.WriteByte('\n')

	// Commit message
	buf.WriteString(message)

	// Ensure message ends in newLine
	if len(message) > 0 && message[len(message)-1] != '\n' {
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// formatSignature renders "Name <email> <unix seconds> <±HHMM>".
func formatSignature(a Author) string {
	_, offset := a.Timestamp.Zone()
	return fmt.Sprintf("%s %d %s", a.String(), a.Timestamp.Unix(), calculateTimezone(offset))
}

func calculateTimezone(offset int) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	hours := offset / constants.SecondsPerHour
	minutes := (offset % constants.SecondsPerHour) / constants.SecondsPerMinute

	return fmt.Sprintf("%c%02d%02d", sign, hours, minutes)
}

// ParseCommit decodes a commit object stored under hash.
// Headers other than tree, parent, author and committer are ignored; only the first
// parent is kept.
func ParseCommit(hash string, obj *Object) (*Commit, error) {
	if obj.Kind() != utils.CommitObjectType {
		return nil, fmt.Errorf("%w: expected commit, got %s", ErrInvalidFormat, obj.Kind())
	}

	content, err := obj.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to read commit content: %w", err)
	}

	headers, message, found := strings.Cut(string(content), "\n\n")
	if !found {
		return nil, fmt.Errorf("%w: commit %s has no blank line before its message", ErrInvalidFormat, hash)
	}

	commit := &Commit{
		hash:    hash,
		message: message,
	}
	var seenAuthor, seenCommitter bool
	for _, line := range strings.Split(headers, "\n") {
		switch {
		case strings.HasPrefix(line, constants.CommitTreePrefix):
			commit.treeHash = strings.TrimPrefix(line, constants.CommitTreePrefix)
		case strings.HasPrefix(line, constants.CommitParentPrefix):
			if commit.parentHash == "" {
				commit.parentHash = strings.TrimPrefix(line, constants.CommitParentPrefix)
			}
		case strings.HasPrefix(line, constants.CommitAuthorPrefix):
			if commit.author, err = parseSignature(strings.TrimPrefix(line, constants.CommitAuthorPrefix)); err != nil {
				return nil, fmt.Errorf("failed to parse author of commit %s: %w", hash, err)
			}
			seenAuthor = true
		case strings.HasPrefix(line, constants.CommitCommitterPrefix):
			if commit.committer, err = parseSignature(strings.TrimPrefix(line, constants.CommitCommitterPrefix)); err != nil {
				return nil, fmt.Errorf("failed to parse committer of commit %s: %w", hash, err)
			}
			seenCommitter = true
		}
	}

	if err := ValidateHash(commit.treeHash); err != nil {
		return nil, fmt.Errorf("commit %s has an invalid tree line: %w", hash, err)
	}
	if commit.parentHash != "" {
		if err := ValidateHash(commit.parentHash); err != nil {
			return nil, fmt.Errorf("commit %s has an invalid parent line: %w", hash, err)
		}
	}
	if !seenAuthor || !seenCommitter {
		return nil, fmt.Errorf("%w: commit %s is missing its author or committer", ErrInvalidFormat, hash)
	}

	return commit, nil
}

// parseSignature parses "Name <email> <unix seconds> <±HHMM>".
func parseSignature(s string) (Author, error) {
	open := strings.IndexByte(s, '<')
	closing := strings.LastIndexByte(s, '>')
	if open < 0 || closing < open {
		return Author{}, fmt.Errorf("%w: signature %q has no email", ErrInvalidFormat, s)
	}

	fields := strings.Fields(s[closing+1:])
	if len(fields) != 2 {
		return Author{}, fmt.Errorf("%w: signature %q has no timestamp", ErrInvalidFormat, s)
	}
	seconds, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Author{}, fmt.Errorf("%w: invalid timestamp %q", ErrInvalidFormat, fields[0])
	}
	location, err := parseTimezone(fields[1])
	if err != nil {
		return Author{}, err
	}

	return Author{
		Name:      strings.TrimSpace(s[:open]),
		Email:     s[open+1 : closing],
		Timestamp: time.Unix(seconds, 0).In(location),
	}, nil
}

// parseTimezone converts a ±HHMM offset into a fixed location.
func parseTimezone(tz string) (*time.Location, error) {
	if len(tz) != 5 || (tz[0] != '+' && tz[0] != '-') {
		return nil, fmt.Errorf("%w: invalid timezone %q", ErrInvalidFormat, tz)
	}
	hours, errHours := strconv.Atoi(tz[1:3])
	minutes, errMinutes := strconv.Atoi(tz[3:5])
	if errHours != nil || errMinutes != nil {
		return nil, fmt.Errorf("%w: invalid timezone %q", ErrInvalidFormat, tz)
	}

	offset := hours*constants.SecondsPerHour + minutes*constants.SecondsPerMinute
	if tz[0] == '-' {
		offset = -offset
	}
	if offset == 0 {
		return time.UTC, nil
	}
	return time.FixedZone("", offset), nil
}

func (c *Commit) Hash() string {
	return c.hash
}

func (c *Commit) TreeHash() string {
	return c.treeHash
}

func (c *Commit) ParentHash() string {
	return c.parentHash
}

func (c *Commit) Author() Author {
	return c.author
}

func (c *Commit) Committer() Author {
	return c.committer
}

func (c *Commit) Message() string {
	return c.message
}

func (c *Commit) Content() []byte {
	return buildCommitContent(c.treeHash, c.parentHash, c.message, c.author, c.committer)
}

func (c *Commit) Size() int {
	return len(c.Content())
}

// Object returns the commit as an in-memory object ready to be stored.
func (c *Commit) Object() *Object {
	return NewObject(utils.CommitObjectType, c.Content())
}

func (c *Commit) IsInitialCommit() bool {
	return c.parentHash == ""
}

func (c *Commit) String() string {
	return fmt.Sprintf("Commit{hash: %s, tree: %s, parent: %s, author: %s, message: %q}",
		c.hash, c.treeHash, c.parentHash, c.author.String(), c.message)
}

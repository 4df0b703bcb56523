package objects

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/testutils"
	"github.com/KostasZigo/gitodb/utils"
)

// setupStore creates a repository with an objects directory and returns its store.
func setupStore(t *testing.T) (*ObjectStore, string) {
	t.Helper()

	repoPath := testutils.SetupTestRepoWithObjectsDir(t)
	return NewObjectStore(repoPath), repoPath
}

// storeObject stores obj and fails test on error.
func storeObject(t *testing.T, store *ObjectStore, obj *Object) string {
	t.Helper()

	hash, err := store.Store(obj)
	if err != nil {
		t.Fatalf("Failed to store %s: %v", obj.Kind(), err)
	}

	return hash
}

// readContent reads the object stored under hash and returns its drained content.
func readContent(t *testing.T, store *ObjectStore, hash string) (utils.ObjectType, []byte) {
	t.Helper()

	obj, err := store.ReadObject(hash)
	if err != nil {
		t.Fatalf("Failed to read object %s: %v", hash, err)
	}
	defer obj.Close()

	content, err := obj.Bytes()
	if err != nil {
		t.Fatalf("Failed to drain object %s: %v", hash, err)
	}

	return obj.Kind(), content
}

// assertBlobHash verifies the stored hash matches the buffered hash of content.
func assertBlobHash(t *testing.T, hash string, content []byte) {
	t.Helper()

	expectedHash, err := utils.ComputeHash(content, utils.BlobObjectType)
	if err != nil {
		t.Fatalf("Hash computation failed: %v", err)
	}

	if hash != expectedHash {
		t.Fatalf("Expected hash [%s], got [%s]", expectedHash, hash)
	}
}

// assertBlobContent verifies blob streams exact content and reports the correct size.
func assertBlobContent(t *testing.T, blob *Object, expectedContent []byte) {
	t.Helper()

	if blob.Size() != int64(len(expectedContent)) {
		t.Fatalf("Expected size %d, got %d", len(expectedContent), blob.Size())
	}

	content, err := blob.Bytes()
	if err != nil {
		t.Fatalf("Failed to read blob content: %v", err)
	}
	if string(content) != string(expectedContent) {
		t.Fatalf("Expected content [%q], got [%q]", expectedContent, content)
	}
}

// createTreeEntry creates tree entry and fails test on error.
func createTreeEntry(t *testing.T, mode FileMode, name, hash string) TreeEntry {
	t.Helper()

	entry, err := NewTreeEntry(mode, name, hash)
	if err != nil {
		t.Fatalf("Failed to create tree entry: %v", err)
	}

	return *entry
}

// createTree creates tree from entries and fails test on error.
func createTree(t *testing.T, entries []TreeEntry) *Tree {
	t.Helper()

	tree, err := NewTree(entries)
	if err != nil {
		t.Fatalf("Failed to create tree: %v", err)
	}

	return tree
}

// createAndStoreTree creates tree from entries, stores it, and returns tree.
func createAndStoreTree(t *testing.T, store *ObjectStore, entries []TreeEntry) *Tree {
	t.Helper()

	tree := createTree(t, entries)
	if hash := storeObject(t, store, tree.Object()); hash != tree.Hash() {
		t.Fatalf("Stored tree hash %s differs from computed hash %s", hash, tree.Hash())
	}

	return tree
}

// assertTreeEntryEqual verifies two tree entries match.
func assertTreeEntryEqual(t *testing.T, actual, expected TreeEntry) {
	t.Helper()

	if actual.Name() != expected.Name() {
		t.Errorf("Entry name mismatch: expected %s, got %s", expected.Name(), actual.Name())
	}
	if actual.Hash() != expected.Hash() {
		t.Errorf("Entry hash mismatch: expected %s, got %s", expected.Hash(), actual.Hash())
	}
	if actual.Mode() != expected.Mode() {
		t.Errorf("Entry mode mismatch: expected %s, got %s", expected.Mode(), actual.Mode())
	}
}

// createTestAuthor returns test author with UTC timezone.
func createTestAuthor(name, email string) Author {
	return Author{
		Name:      name,
		Email:     email,
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
}

// createAndStoreInitialCommit creates initial commit, stores it, and returns commit.
func createAndStoreInitialCommit(t *testing.T, store *ObjectStore) *Commit {
	t.Helper()

	return createAndStoreCommit(t, "", store)
}

// createAndStoreCommit creates commit, stores it, and returns commit.
func createAndStoreCommit(t *testing.T, parentHash string, store *ObjectStore) *Commit {
	t.Helper()

	author := createTestAuthor(testutils.RandomString(10), testutils.RandomString(20))
	commit, err := NewCommit(testutils.RandomHash(), parentHash, testutils.RandomString(50)+"\n", author)
	if err != nil {
		t.Fatalf("Failed to create commit: %v", err)
	}

	if hash := storeObject(t, store, commit.Object()); hash != commit.Hash() {
		t.Fatalf("Stored commit hash %s differs from computed hash %s", hash, commit.Hash())
	}

	return commit
}

// assertCommitEqual verifies two commits match in all fields.
func assertCommitEqual(t *testing.T, actual, expected *Commit) {
	t.Helper()

	if actual.hash != expected.hash {
		t.Errorf("Hash mismatch: expected [%s], got [%s]", expected.hash, actual.hash)
	}

	if actual.treeHash != expected.treeHash {
		t.Errorf("Tree hash mismatch: expected [%s], got [%s]", expected.treeHash, actual.treeHash)
	}

	if actual.parentHash != expected.parentHash {
		t.Errorf("Parent hash mismatch: expected [%s], got [%s]", expected.parentHash, actual.parentHash)
	}

	if actual.message != expected.message {
		t.Errorf("Message mismatch: expected [%s], got [%s]", expected.message, actual.message)
	}

	if actual.author.String() != expected.author.String() {
		t.Errorf("Author mismatch: expected [%s], got [%s]", expected.author.String(), actual.author.String())
	}

	if !actual.author.Timestamp.Equal(expected.author.Timestamp) {
		t.Errorf("Author timestamp mismatch: expected [%s], got [%s]",
			expected.author.Timestamp.Format("2006-01-02 15:04:05 -0700"),
			actual.author.Timestamp.Format("2006-01-02 15:04:05 -0700"))
	}
}

// listTempObjects returns leftover temporary object files in the objects directory.
func listTempObjects(t *testing.T, repoPath string) []string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(repoPath, constants.MetaDir, constants.Objects, constants.TempObjectPattern))
	if err != nil {
		t.Fatalf("Failed to glob temporary objects: %v", err)
	}

	return matches
}

// writeRawObject zlib-compresses raw and places it under hash, bypassing the store.
func writeRawObject(t *testing.T, store *ObjectStore, hash string, raw []byte) {
	t.Helper()

	path := store.objectPath(hash)
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPerms); err != nil {
		t.Fatalf("Failed to create shard directory: %v", err)
	}
	if err := os.WriteFile(path, compress(t, raw), constants.FilePerms); err != nil {
		t.Fatalf("Failed to write raw object: %v", err)
	}
}

// compress deflates raw with the standard library zlib writer.
func compress(t *testing.T, raw []byte) []byte {
	t.Helper()

	var buffer bytes.Buffer
	writer := zlib.NewWriter(&buffer)
	if _, err := writer.Write(raw); err != nil {
		t.Fatalf("Failed to compress: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to flush compressed data: %v", err)
	}

	return buffer.Bytes()
}

// mustDecodeHex decodes a hex hash into its raw bytes.
func mustDecodeHex(t *testing.T, hash string) []byte {
	t.Helper()

	raw, err := hex.DecodeString(hash)
	if err != nil {
		t.Fatalf("Failed to decode hash %s: %v", hash, err)
	}

	return raw
}

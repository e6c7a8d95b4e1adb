package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ninerlabs/peermatch/internal/embedding"
	"github.com/ninerlabs/peermatch/internal/extract"
	"github.com/ninerlabs/peermatch/internal/fileid"
	"github.com/ninerlabs/peermatch/internal/indexer"
	"github.com/ninerlabs/peermatch/internal/keyword"
	"github.com/ninerlabs/peermatch/internal/parser"
	"github.com/ninerlabs/peermatch/internal/storage"
	"github.com/ninerlabs/peermatch/internal/vector"
)

func newTestPipeline(t *testing.T) (*Pipeline, storage.Storage) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	kw, err := keyword.NewMemoryBleveIndex()
	require.NoError(t, err)
	t.Cleanup(func() { kw.Close() })

	vec, err := vector.NewMemoryIndex(32)
	require.NoError(t, err)

	idx := indexer.NewIndexer(store, embedding.NewMockEmbedder(32), vec, kw, zap.NewNop())
	p, err := NewPipeline(extract.NewExtractor(), parser.NewRegexParser(), idx, 2, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p, store
}

func writeResume(t *testing.T, dir, name, email string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := "Sam Park\n" + email + "\nSkills: Python, SQL\nCourses: CS201"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestPipeline_IngestFile(t *testing.T) {
	p, store := newTestPipeline(t)
	dir := t.TempDir()
	path := writeResume(t, dir, "sam.txt", "sam@uni.edu")

	require.NoError(t, p.IngestFile(context.Background(), path))

	abs, _ := filepath.Abs(path)
	profile, err := store.GetProfile(context.Background(), fileid.ResumeID(abs))
	require.NoError(t, err)
	assert.Equal(t, "sam@uni.edu", profile.Email)
	assert.Equal(t, "Sam Park", profile.FullName)
	assert.NotEmpty(t, profile.TechnicalSkills)
}

func TestPipeline_ReingestUpdatesSameProfile(t *testing.T) {
	p, store := newTestPipeline(t)
	dir := t.TempDir()
	path := writeResume(t, dir, "sam.txt", "sam@uni.edu")
	ctx := context.Background()

	require.NoError(t, p.IngestFile(ctx, path))
	require.NoError(t, p.IngestFile(ctx, path))

	count, err := store.CountProfiles(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestPipeline_IngestFileNoEmail(t *testing.T) {
	p, _ := newTestPipeline(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("no contact info here"), 0644))

	assert.Error(t, p.IngestFile(context.Background(), path))
}

func TestPipeline_IngestDirectory(t *testing.T) {
	p, store := newTestPipeline(t)
	dir := t.TempDir()
	writeResume(t, dir, "a.txt", "a@uni.edu")
	writeResume(t, dir, "b.txt", "b@uni.edu")
	writeResume(t, dir, "skip.csv", "c@uni.edu")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.txt"), []byte("no email"), 0644))

	ingested, failed, err := p.IngestDirectory(context.Background(), dir, []string{".txt"})
	require.NoError(t, err)
	assert.Equal(t, 2, ingested)
	assert.Equal(t, 1, failed)

	count, err := store.CountProfiles(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestPipeline_RemoveFile(t *testing.T) {
	p, store := newTestPipeline(t)
	dir := t.TempDir()
	path := writeResume(t, dir, "sam.txt", "sam@uni.edu")
	ctx := context.Background()

	require.NoError(t, p.IngestFile(ctx, path))
	require.NoError(t, p.RemoveFile(ctx, path))

	count, err := store.CountProfiles(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestExtensionAllowed(t *testing.T) {
	assert.True(t, extensionAllowed(".pdf", []string{".pdf", ".txt"}))
	assert.True(t, extensionAllowed(".PDF", []string{"pdf"}))
	assert.False(t, extensionAllowed(".csv", []string{".pdf"}))
	assert.True(t, extensionAllowed(".anything", nil))
}

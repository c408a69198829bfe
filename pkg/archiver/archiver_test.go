package archiver

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.Local)

func daysAgo(d float64) time.Time {
	return now.Add(-time.Duration(d * float64(24*time.Hour)))
}

func writeFile(t *testing.T, fs afero.Fs, path string, modTime time.Time) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(filepath.Base(path)), 0644))
	require.NoError(t, fs.Chtimes(path, modTime, modTime))
}

func exists(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fs, path)
	require.NoError(t, err)
	return ok
}

func newArchiver(fs afero.Fs) *Archiver {
	return New(fs, Options{
		ArchiveRoot: "/dest",
		FolderName:  "長期保管（アーカイブ）",
		Days:        30,
		YearSuffix:  "年",
		MonthSuffix: "月",
		Now:         func() time.Time { return now },
	})
}

func TestArchiver_ArchiveOldFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	oldTime := daysAgo(45)
	writeFile(t, fs, "/src/old.txt", oldTime)
	writeFile(t, fs, "/src/fresh.txt", daysAgo(2))
	require.NoError(t, fs.MkdirAll("/src/old_dir", 0755))
	require.NoError(t, fs.Chtimes("/src/old_dir", daysAgo(400), daysAgo(400)))

	stats, err := newArchiver(fs).ArchiveOldFiles("/src")
	require.NoError(t, err)

	want := filepath.Join("/dest", "長期保管（アーカイブ）",
		itoa(oldTime.Year())+"年", itoa(int(oldTime.Month()))+"月", "old.txt")
	assert.True(t, exists(t, fs, want), "archived to %s", want)
	assert.False(t, exists(t, fs, "/src/old.txt"))

	assert.True(t, exists(t, fs, "/src/fresh.txt"))
	assert.True(t, exists(t, fs, "/src/old_dir"), "directories are never archived")

	assert.Equal(t, 2, stats.Scanned)
	assert.Equal(t, 1, stats.Moved)
	assert.Equal(t, 1, stats.Skipped)
	require.Len(t, stats.Moves, 1)
	assert.Equal(t, want, stats.Moves[0].Destination)
}

func TestArchiver_ThresholdIsExclusive(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/exactly30.txt", daysAgo(30))
	writeFile(t, fs, "/src/just_over.txt", daysAgo(30).Add(-time.Minute))

	_, err := newArchiver(fs).ArchiveOldFiles("/src")
	require.NoError(t, err)

	assert.True(t, exists(t, fs, "/src/exactly30.txt"), "age equal to the threshold stays")
	assert.False(t, exists(t, fs, "/src/just_over.txt"))
}

func TestArchiver_YearMonthFromModTime(t *testing.T) {
	fs := afero.NewMemMapFs()
	mtime := time.Date(2023, time.December, 31, 23, 0, 0, 0, time.Local)
	writeFile(t, fs, "/src/nye.log", mtime)

	_, err := newArchiver(fs).ArchiveOldFiles("/src")
	require.NoError(t, err)

	assert.True(t, exists(t, fs, filepath.Join("/dest", "長期保管（アーカイブ）", "2023年", "12月", "nye.log")))
}

func TestArchiver_CollisionInArchive(t *testing.T) {
	fs := afero.NewMemMapFs()
	mtime := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.Local)
	folder := filepath.Join("/dest", "長期保管（アーカイブ）", "2024年", "1月")
	writeFile(t, fs, filepath.Join(folder, "old.txt"), mtime)
	writeFile(t, fs, "/src/old.txt", mtime)

	stats, err := newArchiver(fs).ArchiveOldFiles("/src")
	require.NoError(t, err)

	assert.True(t, exists(t, fs, filepath.Join(folder, "old.txt")))
	assert.True(t, exists(t, fs, filepath.Join(folder, "old_1.txt")))
	assert.Equal(t, 1, stats.Renamed)
}

func TestArchiver_DryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/old.txt", daysAgo(90))

	a := newArchiver(fs)
	a.opts.DryRun = true

	stats, err := a.ArchiveOldFiles("/src")
	require.NoError(t, err)

	assert.True(t, exists(t, fs, "/src/old.txt"))
	assert.False(t, exists(t, fs, "/dest"))
	assert.Equal(t, 1, stats.Moved)
}

func TestArchiver_MissingSourceDir(t *testing.T) {
	_, err := newArchiver(afero.NewMemMapFs()).ArchiveOldFiles("/nope")
	require.Error(t, err)
}

func TestArchiver_IsStale(t *testing.T) {
	a := New(afero.NewMemMapFs(), Options{Days: 0})
	assert.True(t, a.IsStale(now.Add(-time.Second), now))
	assert.False(t, a.IsStale(now, now))
	assert.False(t, a.IsStale(now.Add(time.Hour), now), "future mtimes are never stale")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

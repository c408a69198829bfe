package app

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyu-x/file-organizer/config"
	"github.com/moyu-x/file-organizer/internal"
)

var now = time.Date(2025, time.June, 20, 15, 0, 0, 0, time.Local)

func testConfig(t *testing.T, watch, dest string) *config.Config {
	t.Helper()
	cfg, err := config.Load(config.NewViper(), writeYAML(t, "watch_folder: "+watch+"\ndestination_base_folder: "+dest+"\n"))
	require.NoError(t, err)
	return cfg
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func put(t *testing.T, fs afero.Fs, path string, modTime time.Time) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(path), 0644))
	require.NoError(t, fs.Chtimes(path, modTime, modTime))
}

func has(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fs, path)
	require.NoError(t, err)
	return ok
}

func ym(ts time.Time) (string, string) {
	return strconv.Itoa(ts.Year()) + "年", strconv.Itoa(int(ts.Month())) + "月"
}

func TestRun_Scenarios(t *testing.T) {
	fs := afero.NewMemMapFs()
	old := now.AddDate(0, 0, -45)
	recent := now.AddDate(0, 0, -1)

	put(t, fs, "/in/old.txt", old)
	put(t, fs, "/in/old_請求書.pdf", old)
	put(t, fs, "/in/invoice_請求書.pdf", recent)
	put(t, fs, "/in/photo.PNG", recent)
	put(t, fs, "/in/readme.md", recent)
	put(t, fs, "/in/file-organizer.exe", old)

	opts := &Options{
		Config:   testConfig(t, "/in", "/out"),
		Fs:       fs,
		SelfName: "file-organizer.exe",
		Now:      func() time.Time { return now },
	}

	stats, err := Run(opts)
	require.NoError(t, err)

	oy, om := ym(old)
	ry, rm := ym(recent)

	assert.True(t, has(t, fs, filepath.Join("/out", "長期保管（アーカイブ）", oy, om, "old.txt")))
	assert.True(t, has(t, fs, filepath.Join("/out", "長期保管（アーカイブ）", oy, om, "old_請求書.pdf")),
		"stale files are archived before keyword rules can see them")
	assert.True(t, has(t, fs, filepath.Join("/out", ry, rm, "01_請求書", "invoice_請求書.pdf")))
	assert.True(t, has(t, fs, filepath.Join("/out", ry, rm, "画像", "photo.PNG")))
	assert.True(t, has(t, fs, "/in/readme.md"))

	// 归档阶段不跳过程序自身
	assert.True(t, has(t, fs, filepath.Join("/out", "長期保管（アーカイブ）", oy, om, "file-organizer.exe")))

	require.NotNil(t, stats.Archive)
	require.NotNil(t, stats.Organize)
	assert.Equal(t, 3, stats.Archive.Moved)
	assert.Equal(t, 2, stats.Organize.Moved)
	assert.Equal(t, 1, stats.Organize.Skipped)
}

func TestRun_SelfSkippedByOrganizer(t *testing.T) {
	fs := afero.NewMemMapFs()
	put(t, fs, "/in/tool.exe", now)

	opts := &Options{
		Config:   testConfig(t, "/in", "/out"),
		Fs:       fs,
		SelfName: "tool.exe",
		Now:      func() time.Time { return now },
	}

	_, err := Run(opts)
	require.NoError(t, err)
	assert.True(t, has(t, fs, "/in/tool.exe"))
}

func TestRun_MissingWatchFolder(t *testing.T) {
	opts := &Options{
		Config: testConfig(t, "/missing", "/out"),
		Fs:     afero.NewMemMapFs(),
		Now:    func() time.Time { return now },
	}

	_, err := Run(opts)
	require.Error(t, err)

	var verr *config.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestRun_DryRunLeavesFilesystemUntouched(t *testing.T) {
	fs := afero.NewMemMapFs()
	put(t, fs, "/in/old.txt", now.AddDate(0, -3, 0))
	put(t, fs, "/in/a.zip", now)

	cfg := testConfig(t, "/in", "/out")
	cfg.DryRun = true

	stats, err := Run(&Options{Config: cfg, Fs: fs, Now: func() time.Time { return now }})
	require.NoError(t, err)

	assert.True(t, has(t, fs, "/in/old.txt"))
	assert.True(t, has(t, fs, "/in/a.zip"))
	assert.False(t, has(t, fs, "/out"))
	assert.Equal(t, 1, stats.Archive.Moved)
	assert.True(t, stats.DryRun)

	require.Len(t, stats.Organize.Moves, 1, "files planned for the archive are not planned again")
	assert.Equal(t, 1, stats.Organize.Moved)
	assert.Equal(t, "/in/a.zip", stats.Organize.Moves[0].Source)
}

func TestRun_OnDisk(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "Downloads")
	out := filepath.Join(root, "Documents", "整理済みファイル")
	require.NoError(t, os.MkdirAll(in, 0755))

	old := now.AddDate(0, 0, -45)
	for name, mtime := range map[string]time.Time{"old.txt": old, "見積書.xlsx": now} {
		path := filepath.Join(in, name)
		require.NoError(t, os.WriteFile(path, []byte(name), 0644))
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}

	stats, err := Run(&Options{
		Config: testConfig(t, in, out),
		Now:    func() time.Time { return now },
	})
	require.NoError(t, err)

	oy, om := ym(old)
	ny, nm := ym(now)
	archived := filepath.Join(out, "長期保管（アーカイブ）", oy, om, "old.txt")
	assert.FileExists(t, archived)
	assert.FileExists(t, filepath.Join(out, ny, nm, "02_見積書", "見積書.xlsx"))
	assert.NoFileExists(t, filepath.Join(in, "old.txt"))

	info, err := os.Stat(archived)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "moves never touch timestamps")

	assert.Equal(t, int64(len("old.txt")), stats.Archive.Bytes)
}

func TestSummary(t *testing.T) {
	stats := &internal.RunStats{
		Archive:   &internal.PhaseStats{Phase: internal.PhaseArchive, Scanned: 3, Moved: 1, Skipped: 2, Bytes: 2048},
		Organize:  &internal.PhaseStats{Phase: internal.PhaseOrganize, Scanned: 2, Moved: 2, Renamed: 1},
		StartTime: now,
		EndTime:   now.Add(1500 * time.Millisecond),
	}

	out := Summary(stats)
	assert.Contains(t, out, "全部处理完成")
	assert.Contains(t, out, "归档")
	assert.Contains(t, out, "整理")
	assert.Contains(t, out, "2.0 kB")
	assert.Contains(t, out, "1.5s")

	stats.DryRun = true
	assert.Contains(t, Summary(stats), "预览完成")
}

func TestFailureMessage(t *testing.T) {
	assert.Contains(t, FailureMessage(errors.New("permission denied")), "permission denied")
}

package dlog

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Archiver moves yesterday's log files into a dated directory and truncates
// the live ones. Runs on the cron schedule set up in init.
type Archiver struct {
	dir string
}

func (a *Archiver) process() {
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	archiveDir := filepath.Join(a.dir, yesterday)
	tmp := archiveDir
	counter := 1
	err := os.Mkdir(archiveDir, 0755)
	for os.IsExist(err) {
		archiveDir = tmp + "-" + strconv.Itoa(counter)
		counter++
		err = os.Mkdir(archiveDir, 0755)
	}
	if err != nil {
		Log.Error("failed to create archive directory", "dir", archiveDir, "err", err)
		return
	}

	entries, err := os.ReadDir(a.dir)
	if err != nil {
		Log.Error("failed to read log directory", "err", err)
		return
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		live := filepath.Join(a.dir, entry.Name())
		if err := a.archiveFile(live, filepath.Join(archiveDir, entry.Name())); err != nil {
			Log.Error("failed to archive log", "file", entry.Name(), "err", err)
			return
		}
		if err := os.Truncate(live, 0); err != nil {
			Log.Error("failed to truncate log", "file", entry.Name(), "err", err)
			return
		}
	}
	Log.Info("archived logs", "dir", archiveDir)
}

func (a *Archiver) archiveFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

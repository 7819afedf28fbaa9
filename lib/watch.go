// Tset
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package lib

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/purpleidea/tset/util/errwrap"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"
)

// DefaultWatchLimit is the fastest rate that the graph is reloaded at.
const DefaultWatchLimit = rate.Limit(10) // per second

// Watch runs the query, and then runs it again every time the graph file
// changes, until the context is cancelled. A file which fails to load is
// logged and skipped, and the previous graph stays in use. The directory of
// the file is watched, so that editors which replace the file are seen too.
func (obj *Main) Watch(ctx context.Context, query func() error) error {
	if _, ok := obj.Fs.(*afero.OsFs); !ok {
		return fmt.Errorf("watching needs the os filesystem")
	}
	if err := query(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errwrap.Wrapf(err, "can't create watcher")
	}
	defer watcher.Close()

	file, err := filepath.Abs(obj.Config.File)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		return errwrap.Wrapf(err, "can't watch %s", file)
	}
	obj.Logf("watch: watching %s", file)

	limiter := rate.NewLimiter(DefaultWatchLimit, 1)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != file {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if obj.Debug {
				obj.Logf("watch: event: %s", event)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return errwrap.Wrapf(err, "watch error")

		case <-ctx.Done():
			return nil
		}

		now := time.Now()
		if d := limiter.Reserve().DelayFrom(now); d > 0 {
			obj.Logf("watch: limited, next reload in %v", d)
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return nil
			}
		}

		if err := obj.load(); err != nil {
			obj.Logf("watch: reload failed: %+v", err)
			continue
		}
		if err := query(); err != nil {
			return err
		}
	}
}

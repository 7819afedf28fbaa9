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

// Package util contains a collection of miscellaneous utility functions.
package util

// Error is a constant error type that implements error.
type Error string

// Error fulfills the error interface of this type.
func (e Error) Error() string { return string(e) }

// StrRemoveDuplicatesInList removes any duplicate values in the list. This
// implementation preserves the order of the first occurrence of each element.
func StrRemoveDuplicatesInList(list []string) []string {
	unique := []string{}
	seen := make(map[string]struct{})
	for _, x := range list {
		if _, exists := seen[x]; exists {
			continue
		}
		seen[x] = struct{}{}
		unique = append(unique, x)
	}
	return unique
}

// LogfPrefix returns a logf function which adds a prefix to every message and
// then passes it on to the parent logf. A nil parent results in a logf which
// discards everything, so that callers never need to check.
func LogfPrefix(logf func(format string, v ...interface{}), prefix string) func(format string, v ...interface{}) {
	if logf == nil {
		return func(format string, v ...interface{}) {}
	}
	return func(format string, v ...interface{}) {
		logf(prefix+format, v...)
	}
}

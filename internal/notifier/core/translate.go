// Copyright 2026 Esteban Alvarez. All Rights Reserved.
//
// Created: August 2026
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"changeq/internal/notifier/library"
)

// Translator maps physical library changes to what a given user is allowed
// to see. It is stateless apart from the identifier of the physical
// aggregate root, captured at construction.
type Translator struct {
	rootID string
}

// NewTranslator returns a translator for a library whose physical root
// folder has the given identifier.
func NewTranslator(rootID string) *Translator {
	return &Translator{rootID: rootID}
}

// Translate maps a changed entity to the zero-or-one identifier the user
// should be notified about:
//
//   - the physical library root becomes the user's personal root folder;
//     users never see the physical root directly
//   - with includeIfNotFound (the removed category, where the entity is
//     gone and visibility can no longer be evaluated) the entity always
//     passes through
//   - otherwise the host's visibility rule decides; invisible entities
//     yield nothing
func (t *Translator) Translate(item library.Item, user library.User, includeIfNotFound bool) (string, bool) {
	if item.ID() == t.rootID {
		return user.RootFolderID(), true
	}
	if includeIfNotFound || item.VisibleTo(user) {
		return item.ID(), true
	}
	return "", false
}

// TranslateAll applies Translate to every entity and returns the resulting
// identifiers, deduplicated (root substitution can collapse several
// entities onto the same user root).
func (t *Translator) TranslateAll(items []library.Item, user library.User, includeIfNotFound bool) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		id, ok := t.Translate(it, user, includeIfNotFound)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

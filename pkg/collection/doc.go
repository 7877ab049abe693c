// Package collection implements the repeatable-collection editors: Entry
// holds one committed structured value with a status per component, and
// Editor owns an ordered list of entries plus the draft row new entries are
// composed in. Entries have no identity beyond their position.
package collection

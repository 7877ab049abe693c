// Package render derives presentation-ready views from schemas and values.
// The derivation functions are pure: the same schemas and values always
// produce the same views, so front ends (HTML, terminal, JSON) only ever
// read state and never own it.
package render

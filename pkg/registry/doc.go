// Package registry holds immutable application definitions: the ordered
// category variants that drive the primary field set, the static contact
// section, the repeatable collections, and the labels and messages a form
// front end needs. Registries are checked once at construction so the form
// controller can trust every key and pattern it is given.
package registry

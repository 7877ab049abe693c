// Package model defines the declarative description of an application form:
// field schemas, the categories that swap the primary field set, the static
// sections rendered for every category, and the repeatable collections of
// structured entries. Types here carry no behaviour beyond small derivations
// (qualified keys, effective patterns) so registries, renderers and the form
// controller can share them freely.
package model

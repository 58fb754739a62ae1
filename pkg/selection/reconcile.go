// Package selection keeps the set of selected artwork ids across pages.
//
// The set is global: an id stays selected while other pages are on
// display. Only ids on the displayed page can change, through two
// operations. Reconcile restates the selection of the visible rows and may
// deselect; BulkSelectFirstN only adds.
package selection

// Set is a set of item identifiers.
type Set map[int]struct{}

// Reconcile applies a restated selection for one page to global.
//
// scope is the ids of the page's rows and desired is the ids that should
// now be selected among them. Every id in scope is removed from global,
// then every id of desired that lies in scope is added back. Ids outside
// scope are left untouched, so a row can be deselected without knowing
// what changed, and other pages are never affected.
func Reconcile(global Set, scope []int, desired []int) {
	inScope := make(Set, len(scope))
	for _, id := range scope {
		inScope[id] = struct{}{}
		delete(global, id)
	}

	for _, id := range desired {
		if _, ok := inScope[id]; ok {
			global[id] = struct{}{}
		}
	}
}

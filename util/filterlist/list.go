package filterlist

/* A list of elements that can be narrowed down by a filter string. When the
 * filter is non-empty, Filtered() returns only the elements whose Contains(filter)
 * is true. Elements are kept in the order given by Less.
 *
 * chip8dis uses it to narrow the roms found on disk down to the ones whose
 * name matches what the user asked for.
 */

import (
    "slices"
)

type Base[T any] interface {
    /* true if this object contains the given string as a substring */
    Contains(string) bool
    /* true if this object sorts before the argument */
    Less(T) bool
}

type List[E Base[E]] struct {
    values []E
    filtered []E
    filter string
}

/* Return all the unfiltered elements in the list */
func (list *List[E]) All() []E {
    return list.values
}

/* Return only filtered elements */
func (list *List[E]) Filtered() []E {
    return list.filtered
}

/* number of elements in list */
func (list *List[E]) Size() int {
    return len(list.values)
}

func compare[E Base[E]](left E, right E) int {
    if left.Less(right) {
        return -1
    }
    if right.Less(left) {
        return 1
    }
    return 0
}

func insertSorted[E Base[E]](values []E, value E) []E {
    index, _ := slices.BinarySearchFunc(values, value, compare[E])
    return slices.Insert(values, index, value)
}

/* Add a new element to the list */
func (list *List[E]) Add(value E){
    list.values = insertSorted(list.values, value)
    if value.Contains(list.filter){
        list.filtered = insertSorted(list.filtered, value)
    }
}

/* remove the most recently added letter from the filter string.
 * returns true if a letter was taken off the filter, or false
 * if the filter was empty
 */
func (list *List[E]) BackspaceFilter() bool {
    if len(list.filter) > 0 {
        list.SetFilter(list.filter[0:len(list.filter)-1])
        return true
    }

    return false
}

/* add a string to the end of the filter */
func (list *List[E]) AddFilter(f string){
    list.SetFilter(list.filter + f)
}

func (list *List[E]) SetFilter(f string){
    list.filter = f
    list.filtered = nil
    for _, value := range list.values {
        if value.Contains(list.filter){
            list.filtered = append(list.filtered, value)
        }
    }
}

/* return the filter string */
func (list *List[E]) Filter() string {
    return list.filter
}

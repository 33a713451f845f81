/*
Package configmerge reconciles service configurations when an upgrade or
downgrade crosses a major stack boundary.

Same-stack transitions (e.g. 2.2.0.0 to 2.2.1.0 within one stack) never
touch configuration. When stacks differ, an upgrade performs a three-way
merge per configuration type between the source stack's shipped defaults,
the target stack's shipped defaults, and the cluster's live
configuration; the guiding rule is that operator customizations always
survive, while values never customized follow the new stack. A downgrade
restores the newest configuration revision recorded for the older stack
in a single call.

Reconcile walks every participating service; any store failure aborts
the whole call. The merge itself is a pure function (Merge) so its rules
can be exercised without a store.
*/
package configmerge

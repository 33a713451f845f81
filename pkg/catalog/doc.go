/*
Package catalog provides read-only stack metadata: human-readable display
names for services and components, and whether a component advertises its
own version after a restart.

The planner uses display names on a best-effort basis while building a
sequence (a missing catalog entry is logged and ignored) and consults
IsVersionAdvertised when transitioning components into an in-progress
upgrade state.
*/
package catalog

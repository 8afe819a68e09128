/*
Package compare decides whether a candidate Outcome is equivalent to the control Outcome.

The default policy treats two outcomes as matching when neither failed and their
values are structurally equal, or when both failed. Failures are not compared by
content unless StrictErrors is used. Equality is pluggable per experiment so custom
value types (field-wise comparison, float tolerance) can be supported.

Structural equality is backed by github.com/google/go-cmp, with unexported fields
compared and Equal methods honored.
*/
package compare

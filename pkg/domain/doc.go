/*
Package domain contains the core domain models of the Scientist library.

It defines what a single trial run produces, independent of how the behaviors
are executed or where the results end up. This package is kept free of I/O and
persistence so that journals, stores and the trial engine can share it.

# Key Entities

  - Outcome: The captured value or failure of one behavior invocation, plus timing.
  - Result: The typed comparison of one control Outcome against every candidate.
  - Report: The type-erased view of a Result handed to journals and stores.
  - ExperimentInfo: The read-only descriptor journals receive alongside a Report.
  - Stats: Running counters aggregated from Reports.
*/
package domain

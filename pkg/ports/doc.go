/*
Package ports defines the driven ports (interfaces) of the Scientist library.

These interfaces decouple the laboratory from concrete sinks, allowing finished
reports to be logged, counted, traced or persisted without the core knowing how.

# Key Interfaces

  - Journal: Receives every finished report, synchronously and in registration order.
  - ReportStore: Read side of journals that keep history (memory, redis).
*/
package ports

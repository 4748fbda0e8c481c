// package library imports audio files into the catalog.
//
// An [Importer] polls the import queue, walks queued directories breadth-first and
// re-queues every supported file. Each file is then read by a [TagReader] and merged
// into the catalog by a [Catalog], which prefers metadata already stored over new tags
// and logs a warning for every conflict.
package library

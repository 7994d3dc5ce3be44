// Package provider resolves connection strings of the form "scheme:rest" to drivers that
// expose named collections of documents as queryable sequences.
//
// Built-in drivers:
//   - memory:<dataset> serves datasets registered in-process with RegisterDataset.
//   - json:<path> and yaml:<path> load a file holding either a map of collection name to a
//     list of documents or a bare list, which becomes the collection "default". Files with a
//     ".zst" suffix are decompressed transparently.
package provider

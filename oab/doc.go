package oab

/*

# Offline Address Book snapshot files

This package builds the three index files of an Offline Address Book (OAB)
snapshot from an ordered list of directory accounts:

- the Browse file: one fixed 32 byte record per account
- the RDN index: a parent name table followed by a chain of RDN records
- the ANR index: a chain of ambiguous name resolution records

It follows the same "functional primitives" style as the rest of this module:

- explicit byte layouts (see types.go)
- small, composable encoders that are pure functions of their arguments
- a burden of knowledge on the caller for offsets and counts

## Append-only construction

Every RDN and ANR record carries absolute byte offsets of its neighbours. The
forward offset (oNext) and the RDN root offset (oRoot) are not known until the
bytes that follow have been laid out. Rather than relayout, all files are
built on an append-only Buffer:

1. write the record with its forward fields zeroed, remembering its offset
2. once the following record is appended, overwrite the reserved 4 byte
   fields of the previous record with the new offset
3. when the chain closes, write 0 into the last record's forward fields

Because the buffer only grows, an offset handed out once remains valid.
Previously emitted bytes are never resized, only reserved fields are
overwritten.

## The chain is not a tree

The on-disk format names oLT/rLT as left and right subtree offsets. The files
built here are a degenerate tree: oLT mirrors oPrev and rLT mirrors oNext,
producing an insertion-ordered doubly linked list. Records are never sorted or
rebalanced. Readers that walk the list, or the degenerate tree, see accounts
in the order they were supplied.

## RDN file layout

	+----------------------+  16B header (version, serial, count, oRoot)
	| RDN header           |
	+----------------------+  NUL terminated parent names, first seen wins
	| parent table         |
	+----------------------+  <- oRoot
	| RDN record (dn)      |  24B prefix + key + NUL
	| RDN record (mail)    |
	| ...                  |
	+----------------------+

Each account contributes exactly two RDN records: one for the leaf RDN value
of its distinguished name and one for the local part of its mail address.

*/

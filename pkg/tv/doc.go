// Package tv defines the channel and program records of the TV data store and
// the interfaces shared by its storage backends.
//
// # Records
//
// A Channel is a broadcast channel contributed by a TV input. A Program is a
// scheduled program that belongs to a channel through ChannelID. Both carry a
// Transient flag: transient rows are only valid for the boot session in which
// they were inserted and are removed by the transient retention guard
// (package transient) the first time the store is used after a reboot.
//
// The Transient flag is fixed at insert time. No backend exposes an update path
// for it.
//
// # Storage
//
// The Store interface is implemented by the SQLite and in-memory backends in
// package storage. The two bulk deletes, DeleteTransientPrograms and
// DeleteTransientChannels, are independent predicate deletes. Each one is
// atomic and idempotent: deleting an empty match is a no-op that returns 0.
//
// Programs reference their channel with a cascading foreign key, so deleting a
// channel also removes the programs that belong to it.
package tv

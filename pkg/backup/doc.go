// Package backup stores the full value set of one namespace entry as a single
// backup unit so the entry can be removed from the live namespace and later
// rebuilt exactly.
//
// # Codec
//
// Encode turns a ValueSet into deterministic JSON text keyed by value name:
//
//	{"":{"value":"Demo","type":1},"Flags":{"value":1,"type":4}}
//
// Every value carries its registry type number so Decode can rebuild the same
// types.Value. Payloads are typed per tag: strings for REG_SZ/REG_EXPAND_SZ,
// integers for REG_DWORD/REG_QWORD, string arrays for REG_MULTI_SZ and base64
// for REG_BINARY. Decode(Encode(v)) equals v for every supported type.
//
// # Unit layout
//
// A unit lives under its own path in the backup namespace as four values:
//
//	name           REG_SZ     display name at backup time
//	original_data  REG_SZ     Encode output
//	backup_time    REG_SZ     "2006-01-02 15:04:05"
//	has_backup     REG_DWORD  1 once the unit is complete
//
// Write stores the marker last, so a unit interrupted mid-write is never
// reported as present.
package backup

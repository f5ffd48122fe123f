// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package list

// DatumKind tags the variant held by a Datum: boolean, signed/unsigned
// 8-bit, signed/unsigned 32/64-bit integer, 64-bit float, string, or
// user-data.
type DatumKind uint8

const (
	DNone DatumKind = iota
	DBool
	DI8
	DU8
	DI32
	DU32
	DI64
	DU64
	DFloat
	DString
	DUserData
)

var datumKindStr = [...]string{
	DNone:     "none",
	DBool:     "bool",
	DI8:       "i8",
	DU8:       "u8",
	DI32:      "i32",
	DU32:      "u32",
	DI64:      "i64",
	DU64:      "u64",
	DFloat:    "float",
	DString:   "string",
	DUserData: "userdata",
}

func (k DatumKind) String() string {
	if int(k) < len(datumKindStr) {
		return datumKindStr[k]
	}
	return "bad-datum-kind"
}

// ParseFunc is the signature a registered user-data parser must implement:
// given the body list that followed the user-data name in the input
// (e.g. the "(10 11)" in COORD(10 11)), it returns an opaque value and
// true on success.
type ParseFunc func(body *Header) (interface{}, bool)

// UserData holds a user-data instance: the class name it was registered
// under, the parser that produced it, and the opaque value itself.
type UserData struct {
	ClassName string
	Parse     ParseFunc
	Value     interface{}
}

// Datum is the tagged variant carried by a non-sublist Cell, and also by
// the Data kind of Packet.
type Datum struct {
	Kind DatumKind

	Bool   bool
	I8     int8
	U8     uint8
	I32    int32
	U32    uint32
	I64    int64
	U64    uint64
	Float  float64
	String string
	User   UserData
}

func BoolDatum(v bool) Datum     { return Datum{Kind: DBool, Bool: v} }
func I8Datum(v int8) Datum       { return Datum{Kind: DI8, I8: v} }
func U8Datum(v uint8) Datum      { return Datum{Kind: DU8, U8: v} }
func I32Datum(v int32) Datum     { return Datum{Kind: DI32, I32: v} }
func U32Datum(v uint32) Datum    { return Datum{Kind: DU32, U32: v} }
func I64Datum(v int64) Datum     { return Datum{Kind: DI64, I64: v} }
func U64Datum(v uint64) Datum    { return Datum{Kind: DU64, U64: v} }
func FloatDatum(v float64) Datum { return Datum{Kind: DFloat, Float: v} }
func StringDatum(v string) Datum { return Datum{Kind: DString, String: v} }
func UserDatum(u UserData) Datum { return Datum{Kind: DUserData, User: u} }

// Package endian provides byte order utilities for TRE binary fields.
//
// NITF stores every multi-byte binary value in network (big-endian) order. Field
// values are kept in host order once parsed, so 2 and 4 byte Binary fields are
// swapped on the way in and on the way out. Other lengths pass through untouched.
//
// # Basic Usage
//
//	raw := wire[off : off+4]
//	endian.NetworkToHost(raw) // in place
//	v := endian.HostEngine().Uint32(raw)
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

var hostIsBig = CheckEndianness() == binary.BigEndian

func IsNativeLittleEndian() bool {
	return !hostIsBig
}

func IsNativeBigEndian() bool {
	return hostIsBig
}

func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// HostEngine returns the engine matching the host byte order.
func HostEngine() EndianEngine {
	if hostIsBig {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// NetworkEngine returns the big-endian engine used on the wire.
func NetworkEngine() EndianEngine {
	return binary.BigEndian
}

// Swappable reports whether a Binary field of length n is byte swapped
// between wire and host order.
func Swappable(n int) bool {
	return n == 2 || n == 4
}

// NetworkToHost converts a 2 or 4 byte wire value to host order in place.
// Any other length, and any call on a big-endian host, leaves b unchanged.
func NetworkToHost(b []byte) {
	if hostIsBig {
		return
	}
	swap(b)
}

// HostToNetwork converts a 2 or 4 byte host-order value to wire order in place.
func HostToNetwork(b []byte) {
	if hostIsBig {
		return
	}
	swap(b)
}

func swap(b []byte) {
	switch len(b) {
	case 2:
		b[0], b[1] = b[1], b[0]
	case 4:
		b[0], b[1], b[2], b[3] = b[3], b[2], b[1], b[0]
	}
}

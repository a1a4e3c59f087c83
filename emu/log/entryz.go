package log

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

const maxZFields = 16

// EntryZ is a log entry built with chained typed fields. A nil *EntryZ is a
// disabled entry: every method is a no-op on it, so that disabled log lines
// cost a single nil check.
type EntryZ struct {
	lvl Level
	mod Module
	msg string

	zfbuf [maxZFields]ZField
	zfidx int
}

var entryzPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func NewEntryZ() *EntryZ {
	z := entryzPool.Get().(*EntryZ)
	z.zfidx = 0
	return z
}

func (z *EntryZ) add(f ZField) *EntryZ {
	if z.zfidx < maxZFields {
		z.zfbuf[z.zfidx] = f
		z.zfidx++
	}
	return z
}

func (z *EntryZ) Bool(key string, v bool) *EntryZ {
	if z == nil {
		return nil
	}
	return z.add(ZField{Type: FieldTypeBool, Key: key, Boolean: v})
}

func (z *EntryZ) String(key string, v string) *EntryZ {
	if z == nil {
		return nil
	}
	return z.add(ZField{Type: FieldTypeString, Key: key, String: v})
}

func (z *EntryZ) Stringer(key string, v fmt.Stringer) *EntryZ {
	if z == nil {
		return nil
	}
	return z.add(ZField{Type: FieldTypeStringer, Key: key, Interface: v})
}

func (z *EntryZ) Hex8(key string, v uint8) *EntryZ {
	if z == nil {
		return nil
	}
	return z.add(ZField{Type: FieldTypeHex8, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Hex16(key string, v uint16) *EntryZ {
	if z == nil {
		return nil
	}
	return z.add(ZField{Type: FieldTypeHex16, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Hex32(key string, v uint32) *EntryZ {
	if z == nil {
		return nil
	}
	return z.add(ZField{Type: FieldTypeHex32, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Uint8(key string, v uint8) *EntryZ {
	if z == nil {
		return nil
	}
	return z.add(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Uint16(key string, v uint16) *EntryZ {
	if z == nil {
		return nil
	}
	return z.add(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Uint32(key string, v uint32) *EntryZ {
	if z == nil {
		return nil
	}
	return z.add(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Uint64(key string, v uint64) *EntryZ {
	if z == nil {
		return nil
	}
	return z.add(ZField{Type: FieldTypeUint, Key: key, Integer: v})
}

func (z *EntryZ) Int(key string, v int) *EntryZ {
	if z == nil {
		return nil
	}
	return z.add(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Int64(key string, v int64) *EntryZ {
	if z == nil {
		return nil
	}
	return z.add(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Error(key string, err error) *EntryZ {
	if z == nil {
		return nil
	}
	return z.add(ZField{Type: FieldTypeError, Key: key, Error: err})
}

func (z *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	if z == nil {
		return nil
	}
	return z.add(ZField{Type: FieldTypeDuration, Key: key, Duration: d})
}

func (z *EntryZ) Blob(key string, b []byte) *EntryZ {
	if z == nil {
		return nil
	}
	return z.add(ZField{Type: FieldTypeBlob, Key: key, Blob: b})
}

// End emits the entry and recycles it. The entry must not be used after End.
func (z *EntryZ) End() {
	if z == nil {
		return
	}

	fields := make(logrus.Fields, z.zfidx+1)
	fields["_mod"] = z.mod.String()
	for i := range z.zfbuf[:z.zfidx] {
		fields[z.zfbuf[i].Key] = z.zfbuf[i].Value()
	}

	entry := logrus.StandardLogger().WithFields(fields)
	switch z.lvl {
	case PanicLevel:
		entry.Panic(z.msg)
	case FatalLevel:
		entry.Fatal(z.msg)
	case ErrorLevel:
		entry.Error(z.msg)
	case WarnLevel:
		entry.Warn(z.msg)
	case InfoLevel:
		entry.Info(z.msg)
	default:
		entry.Debug(z.msg)
	}

	clear(z.zfbuf[:z.zfidx])
	entryzPool.Put(z)
}

package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"runtime"

	"github.com/xyproto/env/v2"
)

// The object backend: serializes a verified module into a compact binary
// object file. The format is LEB128-based with sized sections so a consumer
// can skip what it does not understand.

// TargetInfo names the machine the object is produced for.
type TargetInfo struct {
	Triple   string
	CPU      string
	Features string
}

var targetArchNames = map[string]string{
	"amd64":   "x86_64",
	"386":     "i686",
	"arm64":   "aarch64",
	"arm":     "arm",
	"riscv64": "riscv64",
}

var targetOSNames = map[string]string{
	"linux":   "linux-gnu",
	"darwin":  "apple-darwin",
	"windows": "windows-msvc",
	"freebsd": "freebsd",
}

// HostTarget returns the default target for the machine the compiler runs
// on. CREST_TARGET, CREST_CPU and CREST_FEATURES override the defaults.
func HostTarget() TargetInfo {
	arch, ok := targetArchNames[runtime.GOARCH]
	if !ok {
		arch = runtime.GOARCH
	}
	osName, ok := targetOSNames[runtime.GOOS]
	if !ok {
		osName = runtime.GOOS
	}
	return TargetInfo{
		Triple:   env.Str("CREST_TARGET", arch+"-unknown-"+osName),
		CPU:      env.Str("CREST_CPU", "generic"),
		Features: env.Str("CREST_FEATURES", ""),
	}
}

// Object file encoding constants.
const (
	objVersion = 1

	sectionTarget  = 0x01
	sectionGlobals = 0x02
	sectionCode    = 0x03

	typeTagInt    = 0x01
	typeTagFloat  = 0x02
	typeTagVoid   = 0x03
	typeTagPtr    = 0x04
	typeTagArray  = 0x05
	typeTagStruct = 0x06
	typeTagFunc   = 0x07

	valueTagInt    = 0x01
	valueTagFloat  = 0x02
	valueTagBytes  = 0x03
	valueTagInstr  = 0x04
	valueTagParam  = 0x05
	valueTagGlobal = 0x06
	valueTagFunc   = 0x07
)

// objMagic marks a Crest object file.
var objMagic = []byte{0x00, 0x63, 0x72, 0x6F} // "\0cro"

// Binary encoding utilities.

func writeByte(buf *bytes.Buffer, b byte) {
	buf.WriteByte(b)
}

func writeBytes(buf *bytes.Buffer, data []byte) {
	buf.Write(data)
}

func writeLEB128(buf *bytes.Buffer, val uint64) {
	for val >= 0x80 {
		buf.WriteByte(byte(val&0x7F) | 0x80)
		val >>= 7
	}
	buf.WriteByte(byte(val & 0x7F))
}

func writeLEB128Signed(buf *bytes.Buffer, val int64) {
	for {
		b := byte(val & 0x7F)
		val >>= 7

		if (val == 0 && (b&0x40) == 0) || (val == -1 && (b&0x40) != 0) {
			buf.WriteByte(b)
			break
		}

		buf.WriteByte(b | 0x80)
	}
}

func writeName(buf *bytes.Buffer, name string) {
	writeLEB128(buf, uint64(len(name)))
	writeBytes(buf, []byte(name))
}

// writeSection frames the content with its id and size so readers can skip
// unknown sections.
func writeSection(buf *bytes.Buffer, id byte, content *bytes.Buffer) {
	writeByte(buf, id)
	writeLEB128(buf, uint64(content.Len()))
	writeBytes(buf, content.Bytes())
}

// objectWriter tracks per-module and per-function value numbering while
// serializing.
type objectWriter struct {
	globalIndex map[*Global]int
	funcIndex   map[*Func]int
	instrIndex  map[*Instr]int
}

// EncodeObject serializes a module. The module must already verify.
func EncodeObject(m *Module, target TargetInfo) []byte {
	w := &objectWriter{
		globalIndex: make(map[*Global]int),
		funcIndex:   make(map[*Func]int),
	}
	for i, g := range m.Globals {
		w.globalIndex[g] = i
	}
	for i, f := range m.Funcs {
		w.funcIndex[f] = i
	}

	var buf bytes.Buffer
	writeBytes(&buf, objMagic)
	var version [4]byte
	binary.LittleEndian.PutUint32(version[:], objVersion)
	writeBytes(&buf, version[:])
	writeName(&buf, m.Name)

	var targetBuf bytes.Buffer
	writeName(&targetBuf, target.Triple)
	writeName(&targetBuf, target.CPU)
	writeName(&targetBuf, target.Features)
	writeSection(&buf, sectionTarget, &targetBuf)

	var globalBuf bytes.Buffer
	writeLEB128(&globalBuf, uint64(len(m.Globals)))
	for _, g := range m.Globals {
		writeName(&globalBuf, g.Name)
		constFlag := byte(0)
		if g.Const {
			constFlag = 1
		}
		writeByte(&globalBuf, constFlag)
		w.writeType(&globalBuf, g.Elem)
		w.writeValue(&globalBuf, g.Init)
	}
	writeSection(&buf, sectionGlobals, &globalBuf)

	var codeBuf bytes.Buffer
	writeLEB128(&codeBuf, uint64(len(m.Funcs)))
	for _, f := range m.Funcs {
		w.writeFunc(&codeBuf, f)
	}
	writeSection(&buf, sectionCode, &codeBuf)

	return buf.Bytes()
}

// WriteObject verifies the module and writes its object file to path.
func WriteObject(m *Module, path string, target TargetInfo) error {
	if err := m.Verify(); err != nil {
		return err
	}
	return os.WriteFile(path, EncodeObject(m, target), 0o644)
}

func (w *objectWriter) writeType(buf *bytes.Buffer, ty IRType) {
	switch ty := ty.(type) {
	case *IntType:
		writeByte(buf, typeTagInt)
		writeLEB128(buf, uint64(ty.Bits))
	case *FloatType:
		writeByte(buf, typeTagFloat)
		writeLEB128(buf, uint64(ty.Bits))
	case *VoidType:
		writeByte(buf, typeTagVoid)
	case *PtrType:
		writeByte(buf, typeTagPtr)
		w.writeType(buf, ty.Elem)
	case *IRArrayType:
		writeByte(buf, typeTagArray)
		writeLEB128(buf, uint64(ty.Len))
		w.writeType(buf, ty.Elem)
	case *IRStructType:
		writeByte(buf, typeTagStruct)
		writeLEB128(buf, uint64(len(ty.Fields)))
		for _, f := range ty.Fields {
			w.writeType(buf, f)
		}
	case *IRFuncType:
		writeByte(buf, typeTagFunc)
		writeLEB128(buf, uint64(len(ty.Params)))
		for _, p := range ty.Params {
			w.writeType(buf, p)
		}
		w.writeType(buf, ty.Ret)
	}
}

func (w *objectWriter) writeValue(buf *bytes.Buffer, v Value) {
	switch v := v.(type) {
	case *ConstInt:
		writeByte(buf, valueTagInt)
		writeLEB128(buf, uint64(v.Ty.Bits))
		// Signed encoding keeps small negatives short regardless of width.
		writeLEB128Signed(buf, signExtend(v.Val, v.Ty.Bits))
	case *ConstFloat:
		writeByte(buf, valueTagFloat)
		writeLEB128(buf, uint64(v.Ty.Bits))
		var bits [8]byte
		binary.LittleEndian.PutUint64(bits[:], math.Float64bits(v.Val))
		writeBytes(buf, bits[:])
	case *ConstBytes:
		writeByte(buf, valueTagBytes)
		writeLEB128(buf, uint64(len(v.Data)))
		writeBytes(buf, v.Data)
	case *Instr:
		writeByte(buf, valueTagInstr)
		writeLEB128(buf, uint64(w.instrIndex[v]))
	case *Param:
		writeByte(buf, valueTagParam)
		writeLEB128(buf, uint64(v.Index))
	case *Global:
		writeByte(buf, valueTagGlobal)
		writeLEB128(buf, uint64(w.globalIndex[v]))
	case *Func:
		writeByte(buf, valueTagFunc)
		writeLEB128(buf, uint64(w.funcIndex[v]))
	}
}

func (w *objectWriter) writeFunc(buf *bytes.Buffer, f *Func) {
	writeName(buf, f.Name)
	w.writeType(buf, f.Sig)

	// Number every instruction before encoding; operands may reference
	// results from earlier blocks.
	w.instrIndex = make(map[*Instr]int)
	blockIndex := make(map[*Block]int)
	n := 0
	for i, b := range f.Blocks {
		blockIndex[b] = i
		for _, in := range b.Instrs {
			w.instrIndex[in] = n
			n++
		}
	}

	var body bytes.Buffer
	writeLEB128(&body, uint64(len(f.Blocks)))
	for _, b := range f.Blocks {
		writeName(&body, b.Name)
		writeLEB128(&body, uint64(len(b.Instrs)))
		for _, in := range b.Instrs {
			writeByte(&body, byte(in.Op))
			switch in.Op {
			case OpBr:
				writeLEB128(&body, uint64(blockIndex[in.Dest]))
			case OpCondBr:
				w.writeValue(&body, in.Args[0])
				writeLEB128(&body, uint64(blockIndex[in.DestTrue]))
				writeLEB128(&body, uint64(blockIndex[in.DestFalse]))
			case OpICmp, OpFCmp:
				writeByte(&body, byte(in.Pred))
				w.writeType(&body, in.Ty)
				for _, a := range in.Args {
					w.writeValue(&body, a)
				}
			case OpMember:
				w.writeType(&body, in.Ty)
				w.writeValue(&body, in.Args[0])
				writeLEB128(&body, uint64(in.Index))
			default:
				w.writeType(&body, in.Ty)
				writeLEB128(&body, uint64(len(in.Args)))
				for _, a := range in.Args {
					w.writeValue(&body, a)
				}
			}
		}
	}
	writeLEB128(buf, uint64(body.Len()))
	writeBytes(buf, body.Bytes())
}

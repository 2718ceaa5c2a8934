package meshdata

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/flywave/go3d/vec3"
)

func writeLittleByte(wt io.Writer, v interface{}) error {
	return binary.Write(wt, binary.LittleEndian, v)
}

func readLittleByte(rd io.Reader, v interface{}) error {
	if err := binary.Read(rd, binary.LittleEndian, v); err != nil {
		return formatError(err)
	}
	return nil
}

// formatError 把读取不足转为 ErrFormat
func formatError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated data: %v", ErrFormat, err)
	}
	return err
}

func meshToRecord(m *Mesh) (meshRecord, error) {
	rec := meshRecord{
		LodCount:     m.LodCount,
		StreamCount:  m.StreamCount,
		IndexOffset:  m.IndexOffset,
		VertexOffset: m.VertexOffset,
		VertexCount:  m.VertexCount,
	}
	if m.LodCount == 0 || m.LodCount > MAX_LODS || len(m.LodOffset) != int(m.LodCount)+1 {
		return rec, fmt.Errorf("%w: mesh has %d LODs and %d LOD offsets", ErrCapacity, m.LodCount, len(m.LodOffset))
	}
	if m.StreamCount > MAX_STREAMS || len(m.StreamOffset) != int(m.StreamCount) || len(m.StreamElementSize) != int(m.StreamCount) {
		return rec, fmt.Errorf("%w: mesh has %d streams", ErrCapacity, m.StreamCount)
	}
	copy(rec.LodOffset[:], m.LodOffset)
	copy(rec.StreamOffset[:], m.StreamOffset)
	copy(rec.StreamElementSize[:], m.StreamElementSize)
	return rec, nil
}

func recordToMesh(rec *meshRecord) (Mesh, error) {
	if rec.LodCount == 0 || rec.LodCount > MAX_LODS {
		return Mesh{}, fmt.Errorf("%w: invalid LOD count %d", ErrFormat, rec.LodCount)
	}
	if rec.StreamCount > MAX_STREAMS {
		return Mesh{}, fmt.Errorf("%w: invalid stream count %d", ErrFormat, rec.StreamCount)
	}
	m := Mesh{
		LodCount:          rec.LodCount,
		StreamCount:       rec.StreamCount,
		IndexOffset:       rec.IndexOffset,
		VertexOffset:      rec.VertexOffset,
		VertexCount:       rec.VertexCount,
		LodOffset:         append([]uint32{}, rec.LodOffset[:rec.LodCount+1]...),
		StreamOffset:      append([]uint32{}, rec.StreamOffset[:rec.StreamCount]...),
		StreamElementSize: append([]uint32{}, rec.StreamElementSize[:rec.StreamCount]...),
	}
	for i := 1; i < len(m.LodOffset); i++ {
		if m.LodOffset[i] < m.LodOffset[i-1] {
			return Mesh{}, fmt.Errorf("%w: LOD offsets decrease at %d", ErrFormat, i)
		}
	}
	return m, nil
}

// MeshDataMarshal 依次写入文件头、描述符、包围盒、索引块和顶点块
func MeshDataMarshal(wt io.Writer, md *MeshData) error {
	if len(md.Boxes) != len(md.Meshes) {
		return fmt.Errorf("%w: %d bounding boxes for %d meshes", ErrFormat, len(md.Boxes), len(md.Meshes))
	}
	n := uint64(len(md.Meshes))
	base := uint64(MESH_HEADER_SIZE) + n*(MESH_RECORD_SIZE+BOUNDING_BOX_SIZE)
	total := base + uint64(len(md.IndexData))*4 + uint64(len(md.VertexData))*4
	if total > math.MaxUint32 {
		return fmt.Errorf("%w: container of %d bytes does not fit 32-bit offsets", ErrCapacity, total)
	}

	recs := make([]meshRecord, len(md.Meshes))
	for i := range md.Meshes {
		rec, err := meshToRecord(&md.Meshes[i])
		if err != nil {
			return fmt.Errorf("mesh %d: %w", i, err)
		}
		recs[i] = rec
	}

	header := md.Header()
	if err := writeLittleByte(wt, &header); err != nil {
		return err
	}
	if err := writeLittleByte(wt, recs); err != nil {
		return err
	}
	if err := writeLittleByte(wt, md.Boxes); err != nil {
		return err
	}
	if err := writeLittleByte(wt, md.IndexData); err != nil {
		return err
	}
	return writeLittleByte(wt, md.VertexData)
}

// MeshDataUnMarshal 读取容器，先校验魔数再使用任何大小字段，出错时不返回容器
func MeshDataUnMarshal(rd io.Reader) (*MeshData, error) {
	return meshDataUnMarshal(rd, -1)
}

func meshDataUnMarshal(rd io.Reader, size int64) (*MeshData, error) {
	var header MeshFileHeader
	if err := readLittleByte(rd, &header.MagicValue); err != nil {
		return nil, err
	}
	if header.MagicValue != MESH_MAGIC {
		return nil, fmt.Errorf("%w: bad magic value 0x%08x", ErrFormat, header.MagicValue)
	}
	if err := readLittleByte(rd, &header.MeshCount); err != nil {
		return nil, err
	}
	if err := readLittleByte(rd, &header.DataBlockStartOffset); err != nil {
		return nil, err
	}
	if err := readLittleByte(rd, &header.IndexDataSize); err != nil {
		return nil, err
	}
	if err := readLittleByte(rd, &header.VertexDataSize); err != nil {
		return nil, err
	}

	base := uint64(MESH_HEADER_SIZE) + uint64(header.MeshCount)*(MESH_RECORD_SIZE+BOUNDING_BOX_SIZE)
	if uint64(header.DataBlockStartOffset) != base {
		return nil, fmt.Errorf("%w: data block starts at %d, expected %d", ErrFormat, header.DataBlockStartOffset, base)
	}
	if header.IndexDataSize%4 != 0 || header.VertexDataSize%4 != 0 {
		return nil, fmt.Errorf("%w: blob sizes %d/%d are not multiples of 4", ErrFormat, header.IndexDataSize, header.VertexDataSize)
	}
	if size >= 0 {
		want := base + uint64(header.IndexDataSize) + uint64(header.VertexDataSize)
		if uint64(size) != want {
			return nil, fmt.Errorf("%w: file is %d bytes, header declares %d", ErrFormat, size, want)
		}
	}

	md := &MeshData{}
	md.Meshes = make([]Mesh, 0, min(int(header.MeshCount), 4096))
	for i := uint32(0); i < header.MeshCount; i++ {
		var rec meshRecord
		if err := readLittleByte(rd, &rec); err != nil {
			return nil, err
		}
		m, err := recordToMesh(&rec)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		md.Meshes = append(md.Meshes, m)
	}
	md.Boxes = make([]vec3.Box, 0, len(md.Meshes))
	for i := uint32(0); i < header.MeshCount; i++ {
		var bx vec3.Box
		if err := readLittleByte(rd, &bx); err != nil {
			return nil, err
		}
		md.Boxes = append(md.Boxes, bx)
	}

	indexBlob, err := readBlob(rd, header.IndexDataSize)
	if err != nil {
		return nil, err
	}
	md.IndexData = make([]uint32, len(indexBlob)/4)
	for i := range md.IndexData {
		md.IndexData[i] = binary.LittleEndian.Uint32(indexBlob[i*4:])
	}
	vertexBlob, err := readBlob(rd, header.VertexDataSize)
	if err != nil {
		return nil, err
	}
	md.VertexData = make([]float32, len(vertexBlob)/4)
	for i := range md.VertexData {
		md.VertexData[i] = math.Float32frombits(binary.LittleEndian.Uint32(vertexBlob[i*4:]))
	}

	if err := checkRanges(md); err != nil {
		return nil, err
	}
	return md, nil
}

func readBlob(rd io.Reader, size uint32) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(rd, int64(size)))
	if err != nil {
		return nil, err
	}
	if len(buf) != int(size) {
		return nil, fmt.Errorf("%w: blob of %d bytes truncated to %d", ErrFormat, size, len(buf))
	}
	return buf, nil
}

// checkRanges 校验每个描述符都落在共享缓冲区内
func checkRanges(md *MeshData) error {
	for i := range md.Meshes {
		m := &md.Meshes[i]
		if uint64(m.IndexOffset)+uint64(m.IndexCount()) > uint64(len(md.IndexData)) {
			return fmt.Errorf("%w: mesh %d indices exceed index data", ErrFormat, i)
		}
		stride := uint64(m.stride())
		if uint64(m.VertexOffset)+uint64(m.VertexCount) > uint64(len(md.VertexData))/stride {
			return fmt.Errorf("%w: mesh %d vertices exceed vertex data", ErrFormat, i)
		}
		if len(m.StreamOffset) > 0 {
			if uint64(m.StreamOffset[0]) != uint64(m.VertexOffset)*uint64(m.StreamElementSize[0]) {
				return fmt.Errorf("%w: mesh %d stream offset %d does not match vertex offset %d", ErrFormat, i, m.StreamOffset[0], m.VertexOffset)
			}
			if uint64(m.StreamOffset[0]/4)+uint64(m.VertexCount)*stride > uint64(len(md.VertexData)) {
				return fmt.Errorf("%w: mesh %d stream exceeds vertex data", ErrFormat, i)
			}
		}
	}
	return nil
}

// MeshDataReadFrom 读取容器文件，并用文件长度核对声明的大小
func MeshDataReadFrom(path string) (*MeshData, error) {
	f, e := os.Open(path)
	if e != nil {
		return nil, e
	}
	defer f.Close()
	st, e := f.Stat()
	if e != nil {
		return nil, e
	}
	return meshDataUnMarshal(bufio.NewReader(f), st.Size())
}

// MeshDataWriteTo 先写临时文件再改名，中断时不会留下截断的容器
func MeshDataWriteTo(path string, md *MeshData) error {
	return writeFileAtomic(path, func(wt io.Writer) error {
		return MeshDataMarshal(wt, md)
	})
}

func writeFileAtomic(path string, fn func(io.Writer) error) error {
	tmp, err := stageFile(path, fn)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// stageFile 把数据写入 path 同目录下的临时文件并返回其路径，由调用方改名或删除
func stageFile(path string, fn func(io.Writer) error) (name string, err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	bw := bufio.NewWriter(f)
	if err = fn(bw); err != nil {
		return "", err
	}
	if err = bw.Flush(); err != nil {
		return "", err
	}
	if err = f.Sync(); err != nil {
		return "", err
	}
	if err = f.Close(); err != nil {
		return "", err
	}
	return f.Name(), nil
}

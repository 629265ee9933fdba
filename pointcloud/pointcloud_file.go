package pointcloud

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/edaniels/lidario"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/panodepth/logging"
)

// PCDType is the format of a pcd file.
type PCDType int

const (
	// PCDAscii ascii format for pcd.
	PCDAscii PCDType = 0
	// PCDBinary binary format for pcd.
	PCDBinary PCDType = 1
	// PCDCompressed binary format for pcd.
	PCDCompressed PCDType = 2
)

// NewFromFile returns a pointcloud read in from the given file.
func NewFromFile(fn string, logger logging.Logger) (PointCloud, error) {
	switch filepath.Ext(fn) {
	case ".las":
		return NewFromLASFile(fn, logger)
	case ".pcd":
		//nolint:gosec
		f, err := os.Open(fn)
		if err != nil {
			return nil, err
		}
		defer utils.UncheckedErrorFunc(f.Close)
		return ReadPCD(f)
	default:
		return nil, errors.Errorf("do not know how to read file %q", fn)
	}
}

// WriteToFile writes the cloud in the format named by the file's extension: .pcd (binary),
// .las, or .xyz (one "x y z r g b" line per point with colors in [0, 1]).
func WriteToFile(cloud PointCloud, fn string) error {
	return WriteToFileWithPCDType(cloud, fn, PCDBinary)
}

// WriteToFileWithPCDType is WriteToFile with the encoding used for .pcd files.
func WriteToFileWithPCDType(cloud PointCloud, fn string, pcdType PCDType) (err error) {
	switch filepath.Ext(fn) {
	case ".las":
		return WriteToLASFile(cloud, fn)
	case ".pcd", ".xyz":
	default:
		return errors.Errorf("do not know how to write file %q", fn)
	}

	//nolint:gosec
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	w := bufio.NewWriter(f)
	defer func() {
		err = multierr.Combine(err, w.Flush())
	}()
	if filepath.Ext(fn) == ".pcd" {
		return ToPCD(cloud, w, pcdType)
	}
	return ToXYZ(cloud, w)
}

// NewFromLASFile returns a point cloud from reading a LAS file. Points without RGB data are
// white.
func NewFromLASFile(fn string, logger logging.Logger) (PointCloud, error) {
	lf, err := lidario.NewLasFile(fn, "r")
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(lf.Close)

	pc := NewWithPrealloc(lf.Header.NumberPoints)
	for i := 0; i < lf.Header.NumberPoints; i++ {
		p, err := lf.LasPoint(i)
		if err != nil {
			return nil, err
		}
		data := p.PointData()

		c := color.NRGBA{255, 255, 255, 255}
		if lf.Header.PointFormatID == 2 && p.RgbData() != nil {
			c.R = uint8(p.RgbData().Red / 256)
			c.G = uint8(p.RgbData().Green / 256)
			c.B = uint8(p.RgbData().Blue / 256)
		}
		pc.Append(NewPoint(r3.Vector{X: data.X, Y: data.Y, Z: data.Z}, c))
	}
	logger.Debugw("read LAS file", "file", fn, "points", pc.Size())
	return pc, nil
}

// WriteToLASFile writes the point cloud out to a LAS file.
func WriteToLASFile(cloud PointCloud, fn string) (err error) {
	lf, err := lidario.NewLasFile(fn, "w")
	if err != nil {
		return
	}
	defer func() {
		cerr := lf.Close()
		err = multierr.Combine(err, cerr)
	}()

	meta := cloud.MetaData()

	pointFormatID := 0
	if meta.HasColor {
		pointFormatID = 2
	}
	if err = lf.AddHeader(lidario.LasHeader{
		PointFormatID: byte(pointFormatID),
	}); err != nil {
		return
	}

	var lastErr error
	cloud.Iterate(0, 0, func(_ int, p Point) bool {
		pos := p.Vector()
		var lp lidario.LasPointer
		pr0 := &lidario.PointRecord0{
			X: pos.X,
			Y: pos.Y,
			Z: pos.Z,
			BitField: lidario.PointBitField{
				Value: (1) | (1 << 3) | (0 << 6) | (0 << 7),
			},
			ClassBitField: lidario.ClassificationBitField{
				Value: 0,
			},
			PointSourceID: 1,
		}
		lp = pr0

		if meta.HasColor {
			r, g, b := p.RGB255()
			lp = &lidario.PointRecord2{
				PointRecord0: pr0,
				RGB: &lidario.RgbData{
					Red:   uint16(r) * 256,
					Green: uint16(g) * 256,
					Blue:  uint16(b) * 256,
				},
			}
		}
		if lerr := lf.AddLasPoint(lp); lerr != nil {
			lastErr = lerr
			return false
		}
		return true
	})
	if lastErr != nil {
		err = lastErr
	}
	return
}

// ToXYZ writes one "x y z r g b" line per point.
func ToXYZ(cloud PointCloud, out io.Writer) error {
	cols := ToColumns(cloud)
	for i := 0; i < cols.Len(); i++ {
		if _, err := fmt.Fprintf(out, "%f %f %f %f %f %f\n",
			cols.X[i], cols.Y[i], cols.Z[i],
			cols.R[i], cols.G[i], cols.B[i]); err != nil {
			return err
		}
	}
	return nil
}

func colorToPCDInt(p Point) int {
	r, g, b := p.RGB255()
	x := 0

	x |= (int(r) << 16)
	x |= (int(g) << 8)
	x |= (int(b) << 0)
	return x
}

func pcdIntToColor(c int) color.NRGBA {
	r := uint8(0xFF & (c >> 16))
	g := uint8(0xFF & (c >> 8))
	b := uint8(0xFF & (c >> 0))
	return color.NRGBA{r, g, b, 255}
}

// ToPCD writes the cloud as an unorganized pcd file with x y z rgb fields.
func ToPCD(cloud PointCloud, out io.Writer, outputType PCDType) error {
	var dataLine string
	switch outputType {
	case PCDBinary:
		dataLine = "binary"
	case PCDAscii:
		dataLine = "ascii"
	case PCDCompressed:
		return errors.New("compressed PCD not yet implemented")
	default:
		return errors.Errorf("unknown PCD type %d", outputType)
	}

	if _, err := fmt.Fprintf(out, "VERSION .7\n"+
		"FIELDS x y z rgb\n"+
		"SIZE 4 4 4 4\n"+
		"TYPE F F F I\n"+
		"COUNT 1 1 1 1\n"+
		"WIDTH %d\n"+
		"HEIGHT %d\n"+
		"VIEWPOINT 0 0 0 1 0 0 0\n"+
		"POINTS %d\n"+
		"DATA %s\n",
		cloud.Size(),
		1,
		cloud.Size(),
		dataLine); err != nil {
		return err
	}
	return writePCDData(cloud, out, outputType)
}

func writePCDData(cloud PointCloud, out io.Writer, pcdtype PCDType) error {
	var err error
	buf := make([]byte, 16)
	cloud.Iterate(0, 0, func(_ int, p Point) bool {
		c := colorToPCDInt(p)
		switch pcdtype {
		case PCDBinary:
			binary.LittleEndian.PutUint32(buf, math.Float32bits(p.Position.X()))
			binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(p.Position.Y()))
			binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(p.Position.Z()))
			binary.LittleEndian.PutUint32(buf[12:], uint32(c))
			_, err = out.Write(buf)
		case PCDAscii:
			_, err = fmt.Fprintf(out, "%f %f %f %d\n", p.Position.X(), p.Position.Y(), p.Position.Z(), c)
		case PCDCompressed:
			err = errors.New("compressed PCD not yet implemented")
		}
		return err == nil
	})
	return err
}

type pcdFieldType int

const (
	pcdPointOnly  pcdFieldType = 3
	pcdPointColor pcdFieldType = 4
)

type pcdValType string

type pcdHeader struct {
	fields    pcdFieldType
	size      []uint64
	valTypes  []pcdValType
	count     []uint64
	width     uint64
	height    uint64
	viewpoint [7]float64
	points    uint64
	data      PCDType
}

const pcdCommentChar = "#"

var pcdHeaderFields = []string{"VERSION", "FIELDS", "SIZE", "TYPE", "COUNT", "WIDTH", "HEIGHT", "VIEWPOINT", "POINTS", "DATA"}

func parseUints(name string, tokens []string, fields pcdFieldType) ([]uint64, error) {
	if len(tokens) != int(fields) {
		return nil, errors.Errorf("unexpected number of fields in %s line", name)
	}
	out := make([]uint64, len(tokens))
	for i, token := range tokens {
		var err error
		out[i], err = strconv.ParseUint(token, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s field %s", name, token)
		}
	}
	return out, nil
}

func parsePCDHeaderLine(line string, index int, header *pcdHeader) error {
	var err error
	name := pcdHeaderFields[index]
	field, value, _ := strings.Cut(line, " ")
	tokens := strings.Split(value, " ")
	if field != name {
		return errors.Errorf("line is supposed to start with %s but is %s", name, line)
	}

	switch name {
	case "VERSION":
		if value != ".7" && value != "0.7" {
			return errors.Errorf("unsupported pcd version %s", value)
		}
	case "FIELDS":
		switch value {
		case "x y z":
			header.fields = pcdPointOnly
		case "x y z rgb":
			header.fields = pcdPointColor
		default:
			return errors.Errorf("unsupported pcd fields %s", value)
		}
	case "SIZE":
		if header.size, err = parseUints(name, tokens, header.fields); err != nil {
			return err
		}
		for _, size := range header.size {
			if size != 4 {
				return errors.Errorf("unsupported pcd field size %d", size)
			}
		}
	case "TYPE":
		if len(tokens) != int(header.fields) {
			return errors.New("unexpected number of fields in TYPE line")
		}
		header.valTypes = make([]pcdValType, len(tokens))
		for i, token := range tokens {
			header.valTypes[i] = pcdValType(token)
		}
	case "COUNT":
		if header.count, err = parseUints(name, tokens, header.fields); err != nil {
			return err
		}
	case "WIDTH":
		header.width, err = strconv.ParseUint(value, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid WIDTH field %s", value)
		}
	case "HEIGHT":
		header.height, err = strconv.ParseUint(value, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid HEIGHT field %s", value)
		}
	case "VIEWPOINT":
		if len(tokens) != len(header.viewpoint) {
			return errors.Errorf("unexpected number of fields in VIEWPOINT line. Expected 7, got %d", len(tokens))
		}
		for i, token := range tokens {
			header.viewpoint[i], err = strconv.ParseFloat(token, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid VIEWPOINT field %s", token)
			}
		}
	case "POINTS":
		var points uint64
		points, err = strconv.ParseUint(value, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid POINTS field %s", value)
		}
		if points != header.width*header.height {
			return errors.Errorf("POINTS field %d does not match WIDTH*HEIGHT %d", points, header.width*header.height)
		}
		header.points = points
	case "DATA":
		switch value {
		case "ascii":
			header.data = PCDAscii
		case "binary":
			header.data = PCDBinary
		case "binary_compressed":
			header.data = PCDCompressed
		default:
			return errors.Errorf("unsupported pcd data %s", value)
		}
	}

	return nil
}

// ReadPCD reads an ascii or binary pcd file with x y z or x y z rgb fields.
func ReadPCD(inRaw io.Reader) (PointCloud, error) {
	header := pcdHeader{}
	in := bufio.NewReader(inRaw)
	headerLineCount := 0
	for headerLineCount < len(pcdHeaderFields) {
		line, err := in.ReadString('\n')
		if err != nil {
			return nil, errors.Wrapf(err, "error reading header line %d", headerLineCount)
		}
		line, _, _ = strings.Cut(line, pcdCommentChar)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := parsePCDHeaderLine(line, headerLineCount, &header); err != nil {
			return nil, err
		}
		headerLineCount++
	}
	switch header.data {
	case PCDAscii:
		return readPCDAscii(in, header)
	case PCDBinary:
		return readPCDBinary(in, header)
	case PCDCompressed:
		return nil, errors.New("compressed pcd not yet supported")
	default:
		return nil, errors.Errorf("unsupported pcd data type %v", header.data)
	}
}

// the POINTS header is untrusted; larger clouds grow as points are actually read.
const maxPCDPrealloc = 1 << 20

func preallocSize(header pcdHeader) int {
	return int(min(header.points, maxPCDPrealloc))
}

func readPCDAscii(in *bufio.Reader, header pcdHeader) (PointCloud, error) {
	pc := NewWithPrealloc(preallocSize(header))
	for i := 0; i < int(header.points); i++ {
		line, err := in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return nil, errors.Wrapf(err, "reading point %d", i)
		}
		tokens := strings.Fields(line)
		if len(tokens) != int(header.fields) {
			return nil, errors.Errorf("unexpected number of fields in point %d", i)
		}
		values := make([]float64, len(tokens))
		for j, token := range tokens {
			values[j], err = strconv.ParseFloat(token, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid point %d field %s", i, token)
			}
		}
		pc.Append(pointFromValues(values, header))
	}
	return pc, nil
}

func readPCDBinary(in *bufio.Reader, header pcdHeader) (PointCloud, error) {
	pc := NewWithPrealloc(preallocSize(header))
	buf := make([]byte, 4*int(header.fields))
	values := make([]float64, int(header.fields))
	for i := 0; i < int(header.points); i++ {
		if _, err := io.ReadFull(in, buf); err != nil {
			return nil, errors.Wrapf(err, "reading point %d", i)
		}
		for j := range values {
			bits := binary.LittleEndian.Uint32(buf[j*4:])
			if header.valTypes[j] == "F" {
				values[j] = float64(math.Float32frombits(bits))
			} else {
				values[j] = float64(bits)
			}
		}
		pc.Append(pointFromValues(values, header))
	}
	return pc, nil
}

func pointFromValues(values []float64, header pcdHeader) Point {
	pos := r3.Vector{X: values[0], Y: values[1], Z: values[2]}
	if header.fields == pcdPointColor {
		return NewPoint(pos, pcdIntToColor(int(values[3])))
	}
	return NewPoint(pos, color.Black)
}

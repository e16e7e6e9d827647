package loader

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/udisondev/navspread/internal/geom"
)

// triangleBytes is one triangle on disk: 9 little-endian float32 values.
const triangleBytes = 9 * 4

// LoadTriangles reads a .tri file: a flat stream of float32 vertex triples,
// three vertices per triangle. A trailing partial record is ignored.
func LoadTriangles(path string) ([]geom.Triangle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening tri file %s: %w", path, err)
	}
	defer f.Close()

	var triangles []geom.Triangle
	buf := make([]byte, 1000*triangleBytes)
	carry := 0

	for {
		n, err := f.Read(buf[carry:])
		if n == 0 && err == io.EOF {
			break
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading tri file %s: %w", path, err)
		}
		total := carry + n
		complete := total / triangleBytes
		for i := 0; i < complete; i++ {
			rec := buf[i*triangleBytes : (i+1)*triangleBytes]
			var v [9]float64
			for j := range v {
				bits := binary.LittleEndian.Uint32(rec[j*4 : j*4+4])
				v[j] = float64(math.Float32frombits(bits))
			}
			triangles = append(triangles, geom.Triangle{
				P1: geom.NewPosition(v[0], v[1], v[2]),
				P2: geom.NewPosition(v[3], v[4], v[5]),
				P3: geom.NewPosition(v[6], v[7], v[8]),
			})
		}
		carry = total - complete*triangleBytes
		copy(buf, buf[complete*triangleBytes:total])
	}
	return triangles, nil
}

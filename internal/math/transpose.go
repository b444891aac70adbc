package math

import "github.com/cwbudde/parfft/internal/fftypes"

// ComplexTranspose transposes the rows x cols matrix of complex values in
// a (stored as adjacent re/im scalar pairs) into b, so that
// b[j][i] = a[i][j]. a and b must not alias.
func ComplexTranspose[T fftypes.Float](a, b []T, rows, cols int) {
	for i := range rows {
		for j := range cols {
			b[2*(j*rows+i)] = a[2*(i*cols+j)]
			b[2*(j*rows+i)+1] = a[2*(i*cols+j)+1]
		}
	}
}

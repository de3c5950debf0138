package matrix

import "github.com/iyisakuma/NPB-GO/NPB-CG/common"

// icnvrt scales a double precision number x in (0,1) by a power of 2 and chops it
func icnvrt(x float64, ipwr2 int) int {
	return int(float64(ipwr2) * x)
}

// sprnvc generates a sparse n-vector (v, iv) having nz nonzeros. Positions
// are 1-based and distinct; nn1 is the smallest power of two not less than n.
func sprnvc(g *common.Generator, n, nz, nn1 int, v []float64, iv []int) int {
	var pair [2]float64
	nzv := 0

	for nzv < nz {
		// value first, then location
		g.Fill(pair[:])
		vecelt, vecloc := pair[0], pair[1]

		i := icnvrt(vecloc, nn1) + 1
		if i > n {
			continue
		}

		// Check if this integer was already generated
		if wasGen(iv[:nzv], i) {
			continue
		}
		v[nzv] = vecelt
		iv[nzv] = i
		nzv++
	}
	return nzv
}

func wasGen(iv []int, i int) bool {
	for _, x := range iv {
		if x == i {
			return true
		}
	}
	return false
}

// vecset sets the element with position i of the sparse vector (v, iv) with
// nzv nonzeros to val, appending it when absent. It returns the new nzv.
func vecset(v []float64, iv []int, nzv int, i int, val float64) int {
	set := false
	for k := 0; k < nzv; k++ {
		if iv[k] == i {
			v[k] = val
			set = true
		}
	}
	if !set {
		v[nzv] = val
		iv[nzv] = i
		nzv++
	}
	return nzv
}

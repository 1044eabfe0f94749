package stats

import "sort"

// WinBuckets 贏倍區間
type WinBuckets struct {
	bounds []float64
	labels []string
}

// Buckets
//
// 用來定位贏倍 -> DistReport 位置
//
// 請勿修改預設值
//   - 贏倍區間: [0,0], (0,1), [1,2), [2,5), ..., [2000,10000), [10000, +inf)
var Buckets *WinBuckets = &WinBuckets{
	bounds: []float64{0, 1, 2, 5, 10, 20, 50, 100, 300, 500, 1000, 2000, 10000},
	labels: []string{"[0,0]", "(0,1)", "[1,2)", "[2,5)", "[5,10)", "[10,20)", "[20,50)", "[50,100)", "[100,300)", "[300,500)", "[500,1000)", "[1000,2000)", "[2000,10000)", "[10000,+inf)"},
}

func (b *WinBuckets) WinBucketStr() []string {
	out := make([]string, len(b.labels))
	copy(out, b.labels)
	return out
}

// Len 區間數
func (b *WinBuckets) Len() int { return len(b.labels) }

// Index 贏倍所在區間；<= 0 一律落在 [0,0]
func (b *WinBuckets) Index(mult float64) int {
	if mult <= 0 {
		return 0
	}
	// 第一個 > mult 的邊界
	return sort.Search(len(b.bounds), func(i int) bool { return b.bounds[i] > mult })
}

// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stats

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// EstimatorPlayers 多位玩家（各自一段 session）的體驗評估
type EstimatorPlayers struct {
	Players     int         `json:"Players"     yaml:"Players"`
	RtpStat     RtpStat     `json:"RtpStat"     yaml:"RtpStat"`
	SessionStat SessionStat `json:"SessionStat" yaml:"SessionStat"`
}

// RtpStat 玩家 RTP 分布
type RtpStat struct {
	Mean      float64   `json:"Mean"      yaml:"Mean"`
	Std       float64   `json:"Std"       yaml:"Std"`
	ExpMedian PointStat `json:"ExpMedian" yaml:"ExpMedian"`
	ExpP10    PointStat `json:"ExpP10"    yaml:"ExpP10"`
	ExpP90    PointStat `json:"ExpP90"    yaml:"ExpP90"`
	Rtp50     PointStat `json:"Rtp50"     yaml:"Rtp50"` // RTP <= 50% 的玩家比例
	Rtp100    PointStat `json:"Rtp100"    yaml:"Rtp100"` // RTP <= 100% 的玩家比例
}

// PointStat 點估計 回傳 估計值 以及信賴區間
type PointStat struct {
	Hat float64 `json:"Hat" yaml:"Hat"`
	CI  CI      `json:"CI"  yaml:"CI"`
}

// SessionStat 結束時的帳本狀態
type SessionStat struct {
	Bust  PointStat `json:"Bust"  yaml:"Bust"`  // 曾經餘額不足一注
	Ahead PointStat `json:"Ahead" yaml:"Ahead"` // 結束時餘額高於初始
}

// EstimatorPlayerExp 以每位玩家的報告估計 RTP 分布與 session 結果比例
func EstimatorPlayerExp(sts []*StatReport) *EstimatorPlayers {
	n := len(sts)
	out := &EstimatorPlayers{Players: n}
	if n == 0 {
		return out
	}

	rtp := make([]float64, n)
	var bustK, aheadK int
	for i, s := range sts {
		rtp[i] = s.Rtp()
		if s.Player != nil {
			if s.Player.Bust {
				bustK++
			}
			if s.Player.Balance > s.Player.InitBalance {
				aheadK++
			}
		}
	}
	mean, std := stat.MeanStdDev(rtp, nil)
	if n < 2 {
		std = 0
	}

	point := func(q float64) PointStat {
		lo, hi := quantileCI(rtp, q, 0.95)
		return PointStat{Hat: quantilePoint(rtp, q), CI: CI{Lo: lo, Hi: hi}}
	}
	below := func(x float64) PointStat {
		hat, ci := percentileCIForValue(rtp, x, 0.95)
		return PointStat{Hat: hat, CI: ci}
	}
	out.RtpStat = RtpStat{
		Mean:      mean,
		Std:       std,
		ExpMedian: point(0.5),
		ExpP10:    point(0.10),
		ExpP90:    point(0.90),
		Rtp50:     below(0.50),
		Rtp100:    below(1.00),
	}

	bustHat, bustCI := proportionCICP(bustK, n, 0.95)
	aheadHat, aheadCI := proportionCICP(aheadK, n, 0.95)
	out.SessionStat = SessionStat{
		Bust:  PointStat{Hat: bustHat, CI: bustCI},
		Ahead: PointStat{Hat: aheadHat, CI: aheadCI},
	}
	return out
}

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// percentileCIForValue 估計 P(X <= x0) 的點估計與 CI
func percentileCIForValue(data []float64, x0 float64, confidence float64) (float64, CI) {
	k := 0
	for _, v := range data {
		if v <= x0 {
			k++
		}
	}
	return proportionCICP(k, len(data), confidence)
}

// quantileCI 以 order statistic 的秩反推第 q 分位的上下界
func quantileCI(data []float64, q, confidence float64) (float64, float64) {
	n := len(data)
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return data[0], data[0]
	}
	cp := sorted(data)
	alpha := 1 - confidence
	k := min(max(int(q*float64(n)), 1), n-1)

	pLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}.Quantile(alpha / 2)
	pHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}.Quantile(1 - alpha/2)

	li := min(max(int(pLo*float64(n)), 0), n-1)
	ui := min(max(int(pHi*float64(n))-1, 0), n-1)
	return cp[li], cp[ui]
}

// quantilePoint 最近秩法的經驗分位數
func quantilePoint(data []float64, q float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	idx := min(max(int(q*float64(n)), 0), n-1)
	return sorted(data)[idx]
}

func sorted(data []float64) []float64 {
	cp := make([]float64, len(data))
	copy(cp, data)
	sort.Float64s(cp)
	return cp
}

// Out 以表格輸出
func (est *EstimatorPlayers) Out(w io.Writer) {
	keys := []string{"Players", "Mean RTP", "RTP Std", "Median RTP", "P10 RTP", "P90 RTP", "≤50% RTP (players)", "≤100% RTP (players)", "Bust", "Ahead"}
	msg := map[string]string{
		"Players":             fmt.Sprintf("%d", est.Players),
		"Mean RTP":            fmtPct01(est.RtpStat.Mean),
		"RTP Std":             fmtPct01(est.RtpStat.Std),
		"Median RTP":          fmtHatCIpct01(est.RtpStat.ExpMedian),
		"P10 RTP":             fmtHatCIpct01(est.RtpStat.ExpP10),
		"P90 RTP":             fmtHatCIpct01(est.RtpStat.ExpP90),
		"≤50% RTP (players)":  fmtHatCIpct01(est.RtpStat.Rtp50),
		"≤100% RTP (players)": fmtHatCIpct01(est.RtpStat.Rtp100),
		"Bust":                fmtHatCIpct01(est.SessionStat.Bust),
		"Ahead":               fmtHatCIpct01(est.SessionStat.Ahead),
	}
	fmt.Fprint(w, fmtTable("Player Experience", keys, msg))
}

func fmtPct01(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func fmtHatCIpct01(ps PointStat) string {
	return fmt.Sprintf("%s [%s, %s]", fmtPct01(ps.Hat), fmtPct01(ps.CI.Lo), fmtPct01(ps.CI.Hi))
}

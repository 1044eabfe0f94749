package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo" yaml:"Lo"`
	Hi float64 `json:"Hi" yaml:"Hi"`
}

// StatReport 模擬統計報告
type StatReport struct {
	Summary *SummaryReport `json:"Summary" yaml:"Summary"`
	Mult    *MultReport    `json:"Mult"    yaml:"Mult"`
	Lines   *LineReport    `json:"Lines"   yaml:"Lines"`
	Dist    *DistReport    `json:"Dist"    yaml:"Dist"`
	Player  *PlayerReport  `json:"Player"  yaml:"Player"`
	isDone  bool
}

type SummaryReport struct {
	GameName    string  `json:"GameName"    yaml:"GameName"`
	Seed        int64   `json:"Seed"        yaml:"Seed"`
	Stake       float64 `json:"Stake"       yaml:"Stake"`
	Lines       int     `json:"Lines"       yaml:"Lines"`
	TotalBet    float64 `json:"TotalBet"    yaml:"TotalBet"`
	TotalWin    float64 `json:"TotalWin"    yaml:"TotalWin"`
	RTP         float64 `json:"RTP"         yaml:"RTP"`
	RtpCI       CI      `json:"RtpCI"       yaml:"RtpCI"`
	Std         float64 `json:"Std"         yaml:"Std"`
	Cv          float64 `json:"Cv"          yaml:"Cv"`
	HitRounds   int     `json:"HitRounds"   yaml:"HitRounds"`
	HitRate     float64 `json:"HitRate"     yaml:"HitRate"`
	NoWinRounds int     `json:"NoWinRounds" yaml:"NoWinRounds"`
	MaxWinMult  float64 `json:"MaxWinMult"  yaml:"MaxWinMult"`
	Rounds      int     `json:"Rounds"      yaml:"Rounds"`
}

// MultReport 贏倍（贏分/押注）累積
type MultReport struct {
	WinMult      float64 `json:"WinMult"      yaml:"WinMult"`
	WinMultSqSum float64 `json:"WinMultSqSum" yaml:"WinMultSqSum"` // 平方和
}

// LineReport 各線與各符號的中獎次數
//
// LineHits[i] 對應線號 i+1
type LineReport struct {
	LineHits   []int          `json:"LineHits"   yaml:"LineHits"`
	SymbolHits map[string]int `json:"SymbolHits" yaml:"SymbolHits"`
}

// DistReport 贏倍區間落點統計
type DistReport struct {
	WinBucket  []string  `json:"WinBucket"  yaml:"WinBucket"`
	WinCollect []int     `json:"WinCollect" yaml:"WinCollect"`
	WinDist    []float64 `json:"WinDist"    yaml:"WinDist"`
}

// PlayerReport 帳本走勢
type PlayerReport struct {
	InitBalance float64 `json:"InitBalance" yaml:"InitBalance"`
	Balance     float64 `json:"Balance"     yaml:"Balance"`
	MaxBalance  float64 `json:"MaxBalance"  yaml:"MaxBalance"`
	MinBalance  float64 `json:"MinBalance"  yaml:"MinBalance"`
	Bust        bool    `json:"Bust"        yaml:"Bust"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 將累積計數轉換為最終統計結果並鎖定 isDone 標記。可重複呼叫。
func (s *StatReport) Done() {
	if s.isDone {
		return
	}
	s.Summary.RTP = s.Rtp()
	s.Summary.RtpCI = s.Ci()
	s.Summary.Std = s.Std()
	s.Summary.Cv = s.Cv()
	s.Summary.NoWinRounds = s.Summary.Rounds - s.Summary.HitRounds
	if s.Summary.Rounds > 0 {
		s.Summary.HitRate = float64(s.Summary.HitRounds) / float64(s.Summary.Rounds)
	}
	if s.Dist != nil && s.Summary.Rounds > 0 {
		s.Dist.WinDist = make([]float64, len(s.Dist.WinCollect))
		for i, c := range s.Dist.WinCollect {
			s.Dist.WinDist[i] = float64(c) / float64(s.Summary.Rounds)
		}
	}
	s.isDone = true
}

// Rtp 回傳整體 RTP（總贏分 / 總押注）
func (s *StatReport) Rtp() float64 {
	if s.Summary.Rounds == 0 || s.Summary.TotalBet == 0 {
		return 0
	}
	return s.Summary.TotalWin / s.Summary.TotalBet
}

// Std 回傳單局贏倍的樣本標準差
func (s *StatReport) Std() float64 {
	if s.Summary.Rounds < 2 {
		return 0
	}
	rounds := float64(s.Summary.Rounds)
	variance := (s.Mult.WinMultSqSum - s.Mult.WinMult*s.Mult.WinMult/rounds) / (rounds - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Cv 回傳單局贏倍的變異係數
func (s *StatReport) Cv() float64 {
	rtp := s.Rtp()
	if rtp <= 0 {
		return 0
	}
	return s.Std() / rtp
}

// Ci 回傳 95% RTP 信賴區間（常態近似）
func (s *StatReport) Ci() CI {
	return s.CiAt(0.95)
}

// CiAt 回傳指定信心水準的 RTP 信賴區間
func (s *StatReport) CiAt(confidence float64) CI {
	rtp := s.Rtp()
	se := 0.0
	if s.Summary.Rounds > 1 {
		se = s.Std() / math.Sqrt(float64(s.Summary.Rounds))
	}
	z := distuv.UnitNormal.Quantile(1 - (1-confidence)/2)
	return CI{
		Lo: max(rtp-z*se, 0.0),
		Hi: rtp + z*se,
	}
}

// Merge 合併另一份（未 Done 的）報告的累積值，用於平行模擬
func (s *StatReport) Merge(o *StatReport) {
	s.isDone = false
	s.Summary.Rounds += o.Summary.Rounds
	s.Summary.TotalBet += o.Summary.TotalBet
	s.Summary.TotalWin += o.Summary.TotalWin
	s.Summary.HitRounds += o.Summary.HitRounds
	s.Summary.MaxWinMult = max(s.Summary.MaxWinMult, o.Summary.MaxWinMult)
	s.Mult.WinMult += o.Mult.WinMult
	s.Mult.WinMultSqSum += o.Mult.WinMultSqSum
	for len(s.Lines.LineHits) < len(o.Lines.LineHits) {
		s.Lines.LineHits = append(s.Lines.LineHits, 0)
	}
	for i, v := range o.Lines.LineHits {
		s.Lines.LineHits[i] += v
	}
	if s.Lines.SymbolHits == nil {
		s.Lines.SymbolHits = make(map[string]int)
	}
	for k, v := range o.Lines.SymbolHits {
		s.Lines.SymbolHits[k] += v
	}
	for i := range s.Dist.WinCollect {
		if i < len(o.Dist.WinCollect) {
			s.Dist.WinCollect[i] += o.Dist.WinCollect[i]
		}
	}
}

func (s *StatReport) WriteWith(w io.Writer, rep StatReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

// StdOut 以表格輸出到標準輸出
func (s *StatReport) StdOut(ut time.Duration) {
	s.Done()
	fmt.Print(formatDuration(ut, s.Summary.Rounds))
	fmt.Println(s.Table())
}

// Table 回傳摘要表與各線中獎表
func (s *StatReport) Table() string {
	s.Done()
	sk, sm := s.fmtBasic()
	out := fmtTable(s.Summary.GameName, sk, sm)
	lk, lm := s.fmtLines()
	if len(lk) > 0 {
		out += fmtTable("Line Hits", lk, lm)
	}
	return out
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, spins int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	sps := int(float64(spins) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nsps : %d spins/sec\n", sec, sps)
	}
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	sc := int(d.Seconds()) % 60
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nsps : %d spins/sec\n", m, sc, sps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nsps : %d spins/sec\n", h, m, sc, sps)
}

func (s *StatReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	basic := map[string]string{
		"Game Name":    p.Sprintf("%s", s.Summary.GameName),
		"Seed":         fmt.Sprintf("%d", s.Summary.Seed),
		"Stake":        p.Sprintf("%.2f", s.Summary.Stake),
		"Paylines":     p.Sprintf("%d", s.Summary.Lines),
		"Total Rounds": p.Sprintf("%d", s.Summary.Rounds),
		"Total RTP":    p.Sprintf("%.2f %%", 100.0*s.Summary.RTP),
		"RTP 95% CI":   p.Sprintf("[%.2f%%,%.2f%%]", 100.0*s.Summary.RtpCI.Lo, 100.0*s.Summary.RtpCI.Hi),
		"Total Bet":    p.Sprintf("%.2f", s.Summary.TotalBet),
		"Total Win":    p.Sprintf("%.2f", s.Summary.TotalWin),
		"Hit Rate":     p.Sprintf("%.4f %%", 100.0*s.Summary.HitRate),
		"NoWin Rounds": p.Sprintf("%d", s.Summary.NoWinRounds),
		"Max Win":      p.Sprintf("%.2fx", s.Summary.MaxWinMult),
		"STD":          p.Sprintf("%.3f", s.Summary.Std),
		"CV":           p.Sprintf("%.3f", s.Summary.Cv),
	}
	keys := []string{"Game Name", "Seed", "Stake", "Paylines", "Total Rounds", "Total RTP", "RTP 95% CI", "Total Bet", "Total Win", "Hit Rate", "NoWin Rounds", "Max Win", "STD", "CV"}
	return keys, basic
}

func (s *StatReport) fmtLines() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	keys := []string{}
	msg := map[string]string{}
	if s.Lines == nil {
		return keys, msg
	}
	for i, c := range s.Lines.LineHits {
		k := fmt.Sprintf("Line %d", i+1)
		keys = append(keys, k)
		msg[k] = p.Sprintf("%d", c)
	}
	syms := make([]string, 0, len(s.Lines.SymbolHits))
	for k := range s.Lines.SymbolHits {
		syms = append(syms, k)
	}
	sort.Strings(syms)
	for _, id := range syms {
		k := "Symbol " + id
		keys = append(keys, k)
		msg[k] = p.Sprintf("%d", s.Lines.SymbolHits[id])
	}
	return keys, msg
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	out := top
	out += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	out += divider
	for _, k := range keys {
		out += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	out += divider
	return out
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}

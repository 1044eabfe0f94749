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

package spec

import (
	"time"

	"github.com/zintix-labs/reelspin/errs"
)

// 預設動畫節奏
const (
	DefaultSpinSpeed      = 40.0
	DefaultMaxBlur        = 6.0
	DefaultBlurDecay      = 0.9
	DefaultBlurFloor      = 0.1
	DefaultMaxSpinMs      = 1500
	DefaultStopDelayMs    = 150
	DefaultSettleMs       = 50
	DefaultPaylineDelayMs = 700
)

// AnimSetting 動畫與節奏設定，未填的欄位套用預設值。
//
// SpinSpeed 單位為「每影格捲動距離」，Tick 的 dt 以 60fps 影格為單位。
type AnimSetting struct {
	SpinSpeed      float64 `yaml:"spin_speed"       json:"spinSpeed"`
	MaxBlur        float64 `yaml:"max_blur"         json:"maxBlur"`
	BlurDecay      float64 `yaml:"blur_decay"       json:"blurDecay"`
	BlurFloor      float64 `yaml:"blur_floor"       json:"blurFloor"`
	MaxSpinMs      int     `yaml:"max_spin_ms"      json:"maxSpinMs"`
	StopDelayMs    int     `yaml:"stop_delay_ms"    json:"stopDelayMs"`
	SettleMs       int     `yaml:"settle_ms"        json:"settleMs"`
	PaylineDelayMs int     `yaml:"payline_delay_ms" json:"paylineDelayMs"`
	Highlight      *bool   `yaml:"highlight"        json:"highlight"`
	initFlag       bool
}

// Init 填入預設值並檢查範圍
func (as *AnimSetting) Init() error {
	if as.initFlag {
		return nil
	}
	if as.SpinSpeed == 0 {
		as.SpinSpeed = DefaultSpinSpeed
	}
	if as.MaxBlur == 0 {
		as.MaxBlur = DefaultMaxBlur
	}
	if as.BlurDecay == 0 {
		as.BlurDecay = DefaultBlurDecay
	}
	if as.BlurFloor == 0 {
		as.BlurFloor = DefaultBlurFloor
	}
	if as.MaxSpinMs == 0 {
		as.MaxSpinMs = DefaultMaxSpinMs
	}
	if as.StopDelayMs == 0 {
		as.StopDelayMs = DefaultStopDelayMs
	}
	if as.SettleMs == 0 {
		as.SettleMs = DefaultSettleMs
	}
	if as.PaylineDelayMs == 0 {
		as.PaylineDelayMs = DefaultPaylineDelayMs
	}
	if as.Highlight == nil {
		on := true
		as.Highlight = &on
	}

	if as.SpinSpeed < 0 || as.MaxBlur < 0 || as.BlurFloor < 0 {
		return errs.NewFatal("anim_setting: negative speed/blur")
	}
	if as.BlurDecay <= 0 || as.BlurDecay >= 1 {
		return errs.Fatalf("anim_setting: blur_decay must be in (0,1), got %v", as.BlurDecay)
	}
	if as.MaxSpinMs < 0 || as.StopDelayMs < 0 || as.SettleMs < 0 || as.PaylineDelayMs < 0 {
		return errs.NewFatal("anim_setting: negative delay")
	}
	as.initFlag = true
	return nil
}

func (as *AnimSetting) MaxSpin() time.Duration {
	return time.Duration(as.MaxSpinMs) * time.Millisecond
}

func (as *AnimSetting) StopDelay() time.Duration {
	return time.Duration(as.StopDelayMs) * time.Millisecond
}

func (as *AnimSetting) Settle() time.Duration {
	return time.Duration(as.SettleMs) * time.Millisecond
}

func (as *AnimSetting) PaylineDelay() time.Duration {
	return time.Duration(as.PaylineDelayMs) * time.Millisecond
}

// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ForkConfig config for forks. Forks up to Paris activate by block number, later forks by
// block timestamp.
type ForkConfig struct {
	Homestead        uint64 `yaml:"homestead"`
	TangerineWhistle uint64 `yaml:"tangerine_whistle"`
	SpuriousDragon   uint64 `yaml:"spurious_dragon"`
	Byzantium        uint64 `yaml:"byzantium"`
	Constantinople   uint64 `yaml:"constantinople"`
	Petersburg       uint64 `yaml:"petersburg"`
	Istanbul         uint64 `yaml:"istanbul"`
	Berlin           uint64 `yaml:"berlin"`
	London           uint64 `yaml:"london"`
	Paris            uint64 `yaml:"paris"`

	ShanghaiTime uint64 `yaml:"shanghai_time"`
	CancunTime   uint64 `yaml:"cancun_time"`
	PragueTime   uint64 `yaml:"prague_time"`
}

func (fc ForkConfig) String() string {
	var strs []string
	push := func(name string, v uint64, unit string) {
		if v != math.MaxUint64 {
			strs = append(strs, fmt.Sprintf("%v: %v%v", name, unit, v))
		}
	}

	push("Homestead", fc.Homestead, "#")
	push("TangerineWhistle", fc.TangerineWhistle, "#")
	push("SpuriousDragon", fc.SpuriousDragon, "#")
	push("Byzantium", fc.Byzantium, "#")
	push("Constantinople", fc.Constantinople, "#")
	push("Petersburg", fc.Petersburg, "#")
	push("Istanbul", fc.Istanbul, "#")
	push("Berlin", fc.Berlin, "#")
	push("London", fc.London, "#")
	push("Paris", fc.Paris, "#")
	push("Shanghai", fc.ShanghaiTime, "@")
	push("Cancun", fc.CancunTime, "@")
	push("Prague", fc.PragueTime, "@")

	return strings.Join(strs, ", ")
}

// Revision returns the revision active at the given block number and timestamp.
func (fc ForkConfig) Revision(number, time uint64) Revision {
	switch {
	case time >= fc.PragueTime && number >= fc.Paris:
		return Prague
	case time >= fc.CancunTime && number >= fc.Paris:
		return Cancun
	case time >= fc.ShanghaiTime && number >= fc.Paris:
		return Shanghai
	}

	forks := [...]struct {
		rev Revision
		num uint64
	}{
		{Paris, fc.Paris},
		{London, fc.London},
		{Berlin, fc.Berlin},
		{Istanbul, fc.Istanbul},
		{Petersburg, fc.Petersburg},
		{Constantinople, fc.Constantinople},
		{Byzantium, fc.Byzantium},
		{SpuriousDragon, fc.SpuriousDragon},
		{TangerineWhistle, fc.TangerineWhistle},
		{Homestead, fc.Homestead},
	}
	for _, f := range forks {
		if number >= f.num {
			return f.rev
		}
	}
	return Frontier
}

// NoFork a special config without any forks.
var NoFork = ForkConfig{
	Homestead:        math.MaxUint64,
	TangerineWhistle: math.MaxUint64,
	SpuriousDragon:   math.MaxUint64,
	Byzantium:        math.MaxUint64,
	Constantinople:   math.MaxUint64,
	Petersburg:       math.MaxUint64,
	Istanbul:         math.MaxUint64,
	Berlin:           math.MaxUint64,
	London:           math.MaxUint64,
	Paris:            math.MaxUint64,
	ShanghaiTime:     math.MaxUint64,
	CancunTime:       math.MaxUint64,
	PragueTime:       math.MaxUint64,
}

// AllForks activates every fork from genesis.
var AllForks = ForkConfig{}

// MainnetForkConfig is the fork schedule of ethereum mainnet.
var MainnetForkConfig = ForkConfig{
	Homestead:        1150000,
	TangerineWhistle: 2463000,
	SpuriousDragon:   2675000,
	Byzantium:        4370000,
	Constantinople:   7280000,
	Petersburg:       7280000,
	Istanbul:         9069000,
	Berlin:           12244000,
	London:           12965000,
	Paris:            15537394,
	ShanghaiTime:     1681338455,
	CancunTime:       1710338135,
	PragueTime:       1746612311,
}

// LoadForkConfig reads fork config from a yaml file. Forks missing from the file never
// activate.
func LoadForkConfig(path string) (ForkConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ForkConfig{}, errors.Wrap(err, "read fork config")
	}
	return ParseForkConfig(data)
}

// ParseForkConfig decodes fork config in yaml.
func ParseForkConfig(data []byte) (ForkConfig, error) {
	fc := NoFork
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return ForkConfig{}, errors.Wrap(err, "decode fork config")
	}
	return fc, nil
}

package game

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Delays are the pacing knobs in milliseconds. They only shape the feel
// of play; correctness never depends on them (see Scheduler guards).
type Delays struct {
	BotAction    uint32 `yaml:"botAction"`
	RoundAdvance uint32 `yaml:"roundAdvance"`
}

func DefaultDelays() Delays {
	return Delays{
		BotAction:    900,
		RoundAdvance: 1200,
	}
}

func ParseDelayConfig(delaysFile string) (Delays, error) {
	bytes, err := ioutil.ReadFile(delaysFile)
	if err != nil {
		return Delays{}, errors.Wrap(err, fmt.Sprintf("Error reading delay config file [%s]", delaysFile))
	}

	var data Delays
	err = yaml.Unmarshal(bytes, &data)
	if err != nil {
		return Delays{}, errors.Wrap(err, fmt.Sprintf("Error parsing delays YAML file [%s]", delaysFile))
	}

	return data, nil
}

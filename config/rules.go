package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/use-agent/brandseed/quality"
)

// rulesFile is the layout of the rules TOML file:
//
//	[logo]
//	allowed_hosts = ["githubusercontent.com"]
//	object_storage_hosts = ["amazonaws.com"]
//	deny_fragments = ["3f9a1c0e"]
type rulesFile struct {
	Logo *quality.LogoRules `toml:"logo"`
}

// LoadRules reads logo quality rules from path. An empty path yields the
// built-in defaults; a file without a [logo] table does too.
func LoadRules(path string) (quality.LogoRules, error) {
	if path == "" {
		return quality.DefaultLogoRules(), nil
	}
	var f rulesFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return quality.LogoRules{}, fmt.Errorf("config: decode rules %s: %w", path, err)
	}
	if f.Logo == nil {
		return quality.DefaultLogoRules(), nil
	}
	return *f.Logo, nil
}

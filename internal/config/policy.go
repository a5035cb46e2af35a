package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/merge-warden/internal/analysis"
)

var (
	ErrPolicyNotFound = errors.New("policy file not found")
	ErrPolicyParsing  = errors.New("policy parsing failed")
)

// policyFile is the on-disk shape of the risk policy. Empty lists keep the defaults.
type policyFile struct {
	SensitiveKeywords  []string `yaml:"sensitive_keywords"`
	HighRiskFiles      []string `yaml:"high_risk_files"`
	HighRiskExtensions []string `yaml:"high_risk_extensions"`
}

// LoadPolicy reads the risk policy YAML at path. A missing file yields the
// default policy together with ErrPolicyNotFound.
func LoadPolicy(path string) (analysis.Policy, error) {
	policy := analysis.DefaultPolicy()
	if path == "" {
		return policy, ErrPolicyNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return policy, ErrPolicyNotFound
		}
		return policy, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	var pf policyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return policy, fmt.Errorf("%w: %w", ErrPolicyParsing, err)
	}

	if len(pf.SensitiveKeywords) > 0 {
		policy.SensitiveKeywords = pf.SensitiveKeywords
	}
	if len(pf.HighRiskFiles) > 0 {
		policy.HighRiskFiles = pf.HighRiskFiles
	}
	if len(pf.HighRiskExtensions) > 0 {
		policy.HighRiskExtensions = pf.HighRiskExtensions
	}
	return policy, nil
}

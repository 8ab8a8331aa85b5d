package trial

import (
	"github.com/vfg2006/aegis-admin-api/pkg/utils"
)

const (
	idPrefix     = "poc"
	slugMaxLen   = 24
	suffixLength = 8
)

type IDGenerator interface {
	NewID(prospectName string) (string, error)
}

// SlugIDGenerator gera ids no formato poc-<slug do prospect>-<sufixo aleatório>
type SlugIDGenerator struct{}

func (SlugIDGenerator) NewID(prospectName string) (string, error) {
	suffix, err := utils.GenerateSuffix(suffixLength)
	if err != nil {
		return "", err
	}

	slug := utils.Slugify(prospectName, slugMaxLen)
	if slug == "" {
		return idPrefix + "-" + suffix, nil
	}
	return idPrefix + "-" + slug + "-" + suffix, nil
}

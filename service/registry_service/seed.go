package registry_service

import (
	"fmt"
	"os"
	"time"

	model "mini-app-gateway/models"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// SeedFile seed file layout
type SeedFile struct {
	Apps []*model.AppMetadata `yaml:"apps"`
}

// LoadSeedFile 读取 YAML 种子文件
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return &seed, nil
}

// ImportSeed upserts every app of the seed file. Records rejected by the
// transition rules are logged and skipped. Returns the number imported.
func (s *RegistryService) ImportSeed(seed *SeedFile) int {
	bar := progressbar.NewOptions(
		len(seed.Apps),
		progressbar.OptionSetDescription("Importing apps"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)

	imported := 0
	for _, app := range seed.Apps {
		if err := s.Upsert(app); err != nil {
			log.Printf("\nSkipping seed app: %v", err)
		} else {
			imported++
		}
		bar.Add(1)
	}
	bar.Finish()

	log.Printf("Seed import finished: %d/%d apps", imported, len(seed.Apps))
	return imported
}

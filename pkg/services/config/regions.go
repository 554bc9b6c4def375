package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/mslanden/marketpress/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// ErrRegionNotFound marks a lookup for a region key with no configured
// profile.
var ErrRegionNotFound = errors.New("region not found")

// Registry exposes the configured region profiles. Profiles live in an INI
// file, one section per region key:
//
//	[anza]
//	display_name = Anza Valley
//	feed_url     = https://data.example.com/anza
//	logo_url     = https://cdn.example.com/logo.png
type Registry interface {
	GetRegions(ctx context.Context) ([]domain.RegionProfile, error)
	GetProfile(ctx context.Context, region domain.Region) (domain.RegionProfile, error)
}

type regionRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load region config: %w", err)
	}
	return &regionRegistry{cfg: cfg}, nil
}

func (r *regionRegistry) GetRegions(_ context.Context) ([]domain.RegionProfile, error) {
	var profiles []domain.RegionProfile
	for _, section := range r.cfg.Sections() {
		if section.Name() == ini.DefaultSection || len(section.Keys()) == 0 {
			continue
		}
		profiles = append(profiles, profileFromSection(section))
	}
	return profiles, nil
}

func (r *regionRegistry) GetProfile(_ context.Context, region domain.Region) (domain.RegionProfile, error) {
	section, err := r.cfg.GetSection(string(region))
	if err != nil {
		return domain.RegionProfile{}, fmt.Errorf("region %q: %w", region, ErrRegionNotFound)
	}
	return profileFromSection(section), nil
}

func profileFromSection(section *ini.Section) domain.RegionProfile {
	name := section.Key("display_name").String()
	if name == "" {
		name = section.Name()
	}
	return domain.RegionProfile{
		Key:         domain.Region(section.Name()),
		DisplayName: name,
		FeedURL:     section.Key("feed_url").String(),
		LogoURL:     section.Key("logo_url").String(),
	}
}

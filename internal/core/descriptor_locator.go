package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"voltron/internal/ports"
	"voltron/internal/types"
)

// PackageDescriptorLocator finds the nearest package descriptor at or
// above a directory.
type PackageDescriptorLocator struct {
	Descriptors ports.PackageDescriptorPort
}

func NewPackageDescriptorLocator(descriptors ports.PackageDescriptorPort) PackageDescriptorLocator {
	return PackageDescriptorLocator{Descriptors: descriptors}
}

// Locate walks from start (the working directory when empty) towards the
// filesystem root and returns the first descriptor found.
func (l PackageDescriptorLocator) Locate(ctx context.Context, start string) (types.PackageDescriptor, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return types.PackageDescriptor{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to determine working directory").
				WithCause(err)
		}
		start = wd
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return types.PackageDescriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid start directory %s", start)).
			WithCause(err)
	}
	for {
		desc, found, err := l.Descriptors.ReadDescriptor(dir)
		if err != nil {
			return types.PackageDescriptor{}, err
		}
		if found {
			log.Ctx(ctx).Debug().Str("path", desc.Path).Msg("package descriptor located")
			return desc, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return types.PackageDescriptor{}, types.NewError(types.ErrorKindNotFound, "", errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("no %s found in %s or any parent directory", types.PackageDescriptorFile, start)))
		}
		dir = parent
	}
}

// Package main is a command that turns a saved depth payload into something viewable.
package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.viam.com/utils"

	"go.viam.com/panodepth/logging"
	"go.viam.com/panodepth/rimage"
)

var logger = logging.NewLogger("depth")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Payload string `flag:"0,required,usage=file holding a base64url depth payload"`
	Output  string `flag:"1,required,usage=output image or raw .dat/.dat.gz depth map"`
	Pretty  bool   `flag:"pretty,usage=color depths by hue instead of writing grayscale"`
	Min     int    `flag:"min,usage=min depth for pretty output"`
	Max     int    `flag:"max,default=255,usage=max depth for pretty output"`
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	//nolint:gosec
	raw, err := os.ReadFile(argsParsed.Payload)
	if err != nil {
		return err
	}
	dm, err := rimage.DecodeDepthStream(strings.TrimSpace(string(raw)), logger)
	if err != nil {
		return err
	}
	stats := dm.Stats()
	logger.Infow("decoded depth map",
		"width", dm.Width(), "height", dm.Height(),
		"valid", stats.Valid, "clamped", stats.Clamped, "mean", stats.Mean)

	out := argsParsed.Output
	if ext := filepath.Ext(strings.TrimSuffix(out, ".gz")); ext == ".dat" {
		return dm.WriteToFile(out)
	}
	if argsParsed.Pretty {
		return rimage.WriteImageToFile(out, dm.ToPrettyPicture(rimage.Depth(argsParsed.Min), rimage.Depth(argsParsed.Max)))
	}
	return rimage.WriteImageToFile(out, dm.ToGray())
}

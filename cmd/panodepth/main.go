// Package main builds a colored point cloud from a street-level panorama and its depth map.
package main

import (
	"context"
	"image"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
	"golang.org/x/sync/errgroup"

	"go.viam.com/panodepth/config"
	"go.viam.com/panodepth/logging"
	"go.viam.com/panodepth/pointcloud"
	"go.viam.com/panodepth/rimage"
	"go.viam.com/panodepth/streetview"
)

var logger = logging.NewLogger("panodepth")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command. Flags override values from the config file.
type Arguments struct {
	Config      string `flag:"config,usage=JSON config file"`
	PanoID      string `flag:"pano,usage=panorama id to fetch"`
	Lat         string `flag:"lat,usage=latitude to search near"`
	Lon         string `flag:"lon,usage=longitude to search near"`
	Zoom        int    `flag:"zoom,usage=tile zoom level for the color panorama"`
	Payload     string `flag:"payload,usage=saved depth payload for an offline run"`
	Panorama    string `flag:"panorama,usage=saved panorama image for an offline run"`
	Output      string `flag:"output,usage=point cloud file (.pcd or .las or .xyz)"`
	PCDFormat   string `flag:"pcd-format,usage=ascii or binary"`
	DepthImage  string `flag:"depth-image,usage=write the distance grid as an image"`
	Pretty      bool   `flag:"pretty,usage=color the depth image by hue"`
	PanoramaOut string `flag:"panorama-out,usage=write the assembled panorama image"`
	PayloadOut  string `flag:"payload-out,usage=write the raw depth payload"`
	LogFile     string `flag:"log-file,usage=also write JSON logs to this rotated file"`
	Debug       bool   `flag:"debug,usage=enable debug logging"`
}

func (args *Arguments) override(cfg *config.Config) error {
	if args.PanoID != "" {
		cfg.PanoID = args.PanoID
	}
	if args.Lat != "" || args.Lon != "" {
		if args.Lat == "" || args.Lon == "" {
			return errors.New("lat and lon must be given together")
		}
		lat, err := strconv.ParseFloat(args.Lat, 64)
		if err != nil {
			return errors.Wrap(err, "bad lat")
		}
		lon, err := strconv.ParseFloat(args.Lon, 64)
		if err != nil {
			return errors.Wrap(err, "bad lon")
		}
		cfg.Location = &config.Location{Lat: lat, Lon: lon}
	}
	if args.Zoom != 0 {
		cfg.Zoom = args.Zoom
	}
	if args.Payload != "" || args.Panorama != "" {
		cfg.Offline = &config.OfflineConfig{PayloadFile: args.Payload, PanoramaFile: args.Panorama}
	}
	if args.Output != "" {
		cfg.Output.PointCloud = args.Output
	}
	if args.PCDFormat != "" {
		cfg.Output.PCDFormat = args.PCDFormat
	}
	if args.DepthImage != "" {
		cfg.Output.DepthImage = args.DepthImage
	}
	if args.PanoramaOut != "" {
		cfg.Output.Panorama = args.PanoramaOut
	}
	if args.PayloadOut != "" {
		cfg.Output.Payload = args.PayloadOut
	}
	if args.LogFile != "" {
		cfg.LogFile = args.LogFile
	}
	cfg.Output.Pretty = cfg.Output.Pretty || args.Pretty
	cfg.Debug = cfg.Debug || args.Debug
	return nil
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	var cfg *config.Config
	var err error
	if argsParsed.Config == "" {
		cfg, err = config.FromReader("", strings.NewReader("{}"), logger, argsParsed.override)
	} else {
		cfg, err = config.Read(argsParsed.Config, logger, argsParsed.override)
	}
	if err != nil {
		return err
	}
	if cfg.Debug {
		logger.SetLevel(logging.DEBUG)
	}
	if cfg.LogFile != "" {
		appender, closer := logging.NewFileAppender(cfg.LogFile)
		defer utils.UncheckedErrorFunc(closer.Close)
		logger.AddAppender(appender)
	}

	return run(ctx, cfg, logger)
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	clientLogger := logger.Sublogger("streetview")
	decoderLogger := logger.Sublogger("decoder")
	if len(cfg.LogConfig) > 0 {
		logging.RegisterLogger("panodepth", logger)
		logging.RegisterLogger("panodepth.streetview", clientLogger)
		logging.RegisterLogger("panodepth.decoder", decoderLogger)
		if err := logging.RegisterConfig(cfg.LogConfig, logger); err != nil {
			return err
		}
	}

	start := time.Now()
	var payload string
	var pano image.Image
	var err error
	if cfg.Offline != nil {
		payload, pano, err = readInputs(cfg.Offline)
	} else {
		payload, pano, err = fetchInputs(ctx, cfg, clientLogger)
	}
	if err != nil {
		return err
	}
	logger.Infow("acquired inputs",
		"payload_size", units.HumanSize(float64(len(payload))),
		"panorama", pano.Bounds().Size(),
		"duration", time.Since(start))

	start = time.Now()
	dm, err := rimage.DecodeDepthStream(payload, decoderLogger)
	if err != nil {
		return err
	}
	stats := dm.Stats()
	logger.Infow("decoded depth map",
		"width", dm.Width(), "height", dm.Height(),
		"valid", stats.Valid, "clamped", stats.Clamped,
		"duration", time.Since(start))

	start = time.Now()
	colorImage := rimage.PreparePanorama(pano, dm.Width(), dm.Height())
	cloud, err := rimage.EquirectangularPointCloud(ctx, dm, colorImage)
	if err != nil {
		return err
	}
	logger.Infow("built point cloud",
		"points", cloud.Size(),
		"centroid", pointcloud.CloudCentroid(cloud),
		"duration", time.Since(start))

	start = time.Now()
	if err := writeOutputs(cfg.Output, payload, pano, dm, cloud); err != nil {
		return err
	}
	logger.Infow("wrote outputs", "point_cloud", cfg.Output.PointCloud, "duration", time.Since(start))
	return nil
}

func readInputs(offline *config.OfflineConfig) (string, image.Image, error) {
	//nolint:gosec
	raw, err := os.ReadFile(offline.PayloadFile)
	if err != nil {
		return "", nil, err
	}
	pano, err := rimage.ReadImageFromFile(offline.PanoramaFile)
	if err != nil {
		return "", nil, err
	}
	return strings.TrimSpace(string(raw)), pano, nil
}

// fetchInputs resolves the panorama id, then downloads the depth payload and the
// panorama tiles concurrently.
func fetchInputs(ctx context.Context, cfg *config.Config, logger logging.Logger) (string, image.Image, error) {
	client := streetview.NewClient(cfg.Service.ClientOptions(), logger)

	panoID := cfg.PanoID
	if panoID == "" {
		var err error
		panoID, err = client.SearchPanorama(ctx, cfg.Location.Lat, cfg.Location.Lon)
		if err != nil {
			return "", nil, err
		}
		logger.Infow("found panorama", "pano_id", panoID)
	}

	var payload string
	var pano image.Image
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		payload, err = client.FetchDepthMap(groupCtx, panoID)
		return err
	})
	group.Go(func() error {
		img, err := client.FetchPanorama(groupCtx, panoID, cfg.Zoom)
		if err != nil {
			return err
		}
		pano = img
		return nil
	})
	if err := group.Wait(); err != nil {
		return "", nil, err
	}
	return payload, pano, nil
}

func writeOutputs(
	out config.OutputConfig,
	payload string,
	pano image.Image,
	dm *rimage.DepthMap,
	cloud pointcloud.PointCloud,
) error {
	pcdType, err := out.PCDType()
	if err != nil {
		return err
	}
	err = pointcloud.WriteToFileWithPCDType(cloud, out.PointCloud, pcdType)
	if out.DepthImage != "" {
		var img image.Image = dm.ToGray()
		if out.Pretty {
			img = dm.ToPrettyPicture(0, rimage.MaxDepth)
		}
		err = multierr.Combine(err, rimage.WriteImageToFile(out.DepthImage, img))
	}
	if out.Panorama != "" {
		err = multierr.Combine(err, rimage.WriteImageToFile(out.Panorama, pano))
	}
	if out.Payload != "" {
		err = multierr.Combine(err, os.WriteFile(out.Payload, []byte(payload+"\n"), 0o600))
	}
	return err
}

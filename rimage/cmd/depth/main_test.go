package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.viam.com/panodepth/logging"
	"go.viam.com/panodepth/rimage"
	"go.viam.com/panodepth/spatialmath"
)

func TestMainWithArgs(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	dir := t.TempDir()

	payload := rimage.EncodeTestDepthPayload(4, 2, []uint8{1, 1, 0, 1, 1, 1, 1, 0},
		[]spatialmath.Plane{spatialmath.NewPlane(0, 0, 1, 50)})
	payloadFile := filepath.Join(dir, "depth.b64")
	test.That(t, os.WriteFile(payloadFile, []byte(payload+"\n"), 0o600), test.ShouldBeNil)

	grayFile := filepath.Join(dir, "depth.png")
	test.That(t, mainWithArgs(context.Background(), []string{"depth", payloadFile, grayFile}, logger), test.ShouldBeNil)
	img, err := rimage.ReadImageFromFile(grayFile)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Bounds().Dx(), test.ShouldEqual, 4)
	test.That(t, img.Bounds().Dy(), test.ShouldEqual, 2)
	test.That(t, logs.FilterMessageSnippet("decoded depth map").Len(), test.ShouldBeGreaterThan, 0)

	prettyFile := filepath.Join(dir, "pretty.qoi")
	test.That(t, mainWithArgs(context.Background(), []string{"depth", "--pretty", payloadFile, prettyFile}, logger), test.ShouldBeNil)
	_, err = os.Stat(prettyFile)
	test.That(t, err, test.ShouldBeNil)

	rawFile := filepath.Join(dir, "depth.dat.gz")
	test.That(t, mainWithArgs(context.Background(), []string{"depth", payloadFile, rawFile}, logger), test.ShouldBeNil)
	dm, err := rimage.ParseDepthMap(rawFile)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dm.Width(), test.ShouldEqual, 4)

	err = mainWithArgs(context.Background(), []string{"depth"}, logger)
	test.That(t, err, test.ShouldNotBeNil)

	err = mainWithArgs(context.Background(), []string{"depth", filepath.Join(dir, "missing"), grayFile}, logger)
	test.That(t, err, test.ShouldNotBeNil)
}

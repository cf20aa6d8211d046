// Command tessera-bench renders random sprite scenes on the software device
// and reports how many draw calls the batcher needed.
package main

import (
	"fmt"
	"image/png"
	"math"
	"math/rand/v2"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/phanxgames/tessera"
	"github.com/phanxgames/tessera/softgpu"
)

const longHelp = `
Render a random scene of textured sprites through the tessera batcher on the
CPU reference device, then log the per-frame draw-call statistics.

Flags override values read from --config; values not given on the command line
keep the file's setting.
`

var exampleUsage = strings.TrimSpace(`
  tessera-bench --sprites 5000 --textures 12
  tessera-bench --config bench.toml --max-textures 2 --debug
  tessera-bench --frames 1 --out frame.png
`)

// options holds the flags that are not engine configuration.
type options struct {
	cfgPath      string
	sprites      int
	textures     int
	width        int
	height       int
	frames       int
	maxBatch     int
	maxTextures  int
	pixelSnap    bool
	debug        bool
	logLevel     string
	validateWGSL bool
	blendMix     bool
	seed         uint64
	out          string
}

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger(), nil
}

func main() {
	def := tessera.DefaultConfig()
	opts := options{
		sprites:  2000,
		textures: 8,
		width:    320,
		height:   240,
		frames:   10,
		maxBatch: def.MaxBatchSize,
		logLevel: "info",
		seed:     1,
	}

	root := &cobra.Command{
		Use:     "tessera-bench",
		Short:   "Measure sprite batching on the software device",
		Long:    strings.TrimSpace(longHelp),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
			return run(opts, changed)
		},
	}

	f := root.Flags()
	f.StringVar(&opts.cfgPath, "config", "", "path to a TOML engine config file")
	f.IntVar(&opts.sprites, "sprites", opts.sprites, "number of sprites in the scene")
	f.IntVar(&opts.textures, "textures", opts.textures, "number of distinct textures")
	f.IntVar(&opts.width, "width", opts.width, "framebuffer width in pixels")
	f.IntVar(&opts.height, "height", opts.height, "framebuffer height in pixels")
	f.IntVar(&opts.frames, "frames", opts.frames, "frames to render")
	f.IntVar(&opts.maxBatch, "max-batch", opts.maxBatch, "items accepted before an implicit flush")
	f.IntVar(&opts.maxTextures, "max-textures", 0, "texture units per draw call (0 = device limit)")
	f.BoolVar(&opts.pixelSnap, "pixel-snap", false, "snap vertices to the pixel grid")
	f.BoolVar(&opts.debug, "debug", false, "log every flush and count unbatched groups")
	f.StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level (debug, info, warn, error)")
	f.BoolVar(&opts.validateWGSL, "validate-wgsl", false, "compile every generated shader with naga")
	f.BoolVar(&opts.blendMix, "blend-mix", false, "give a quarter of the sprites additive blending")
	f.Uint64Var(&opts.seed, "seed", opts.seed, "random seed for the scene")
	f.StringVar(&opts.out, "out", "", "write the last frame to this PNG file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tessera-bench:", err)
		os.Exit(1)
	}
}

// engineConfig layers the config file, then explicitly set flags, over the
// defaults.
func engineConfig(opts options, changed map[string]bool, log zerolog.Logger) (tessera.Config, error) {
	cfg := tessera.DefaultConfig()
	cfg.Logger = log
	if opts.cfgPath != "" {
		fc, err := tessera.LoadFileConfig(opts.cfgPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		if err := tessera.ApplyFileConfig(&cfg, fc); err != nil {
			return cfg, err
		}
	}
	if changed["max-batch"] {
		cfg.MaxBatchSize = opts.maxBatch
	}
	if changed["max-textures"] {
		cfg.MaxTextures = opts.maxTextures
	}
	if changed["pixel-snap"] {
		cfg.PixelSnap = opts.pixelSnap
	}
	if changed["debug"] {
		cfg.Debug = opts.debug
	}
	if changed["log-level"] {
		lvl, err := zerolog.ParseLevel(opts.logLevel)
		if err != nil {
			return cfg, err
		}
		cfg.Logger = cfg.Logger.Level(lvl)
	}
	return cfg, cfg.Validate()
}

func run(opts options, changed map[string]bool) error {
	if opts.sprites < 0 || opts.textures < 1 || opts.frames < 1 {
		return fmt.Errorf("sprites must be >= 0, textures and frames >= 1")
	}
	log, err := newLogger(opts.logLevel)
	if err != nil {
		return err
	}
	cfg, err := engineConfig(opts, changed, log)
	if err != nil {
		return err
	}
	log = cfg.Logger

	dev, err := softgpu.NewDevice(softgpu.Options{
		Width:        opts.width,
		Height:       opts.height,
		ValidateWGSL: opts.validateWGSL,
	})
	if err != nil {
		return err
	}
	eng, err := tessera.NewEngine(dev, cfg)
	if err != nil {
		return err
	}
	units, err := eng.MaxTextureUnits()
	if err != nil {
		return err
	}
	log.Info().Int("units", units).Int("sprites", opts.sprites).Int("textures", opts.textures).Msg("scene")

	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	scene := buildScene(rng, opts)

	var total tessera.FrameStats
	start := time.Now()
	for i := 0; i < opts.frames; i++ {
		dev.Clear(tessera.Color{R: 0.1, G: 0.1, B: 0.15, A: 1})
		scene.Update(1.0 / 60)
		if err := scene.Draw(eng); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		st := eng.Stats()
		log.Debug().Object("stats", st).Msg("frame")
		total.Items += st.Items
		total.Groups += st.Groups
		total.Unbatched += st.Unbatched
		total.DrawCalls += st.DrawCalls
		total.TextureBinds += st.TextureBinds
		total.Flushes += st.Flushes
		total.BytesUploaded += st.BytesUploaded
	}
	elapsed := time.Since(start)
	if err := eng.Close(); err != nil {
		return err
	}

	ev := log.Info().
		Int("frames", opts.frames).
		Float64("draw_calls_per_frame", float64(total.DrawCalls)/float64(opts.frames)).
		Float64("binds_per_frame", float64(total.TextureBinds)/float64(opts.frames)).
		Int("bytes_uploaded", total.BytesUploaded).
		Int("triangles", dev.Counters.Triangles).
		Dur("elapsed", elapsed)
	if cfg.Debug {
		ev = ev.Float64("unbatched_groups_per_frame", float64(total.Unbatched)/float64(opts.frames))
	}
	ev.Msg("done")

	if opts.out != "" {
		if err := writePNG(opts.out, dev); err != nil {
			return err
		}
		log.Info().Str("path", opts.out).Msg("wrote frame")
	}
	return nil
}

// buildScene scatters sprites over the framebuffer, cycling through textures
// so that neighbours in draw order rarely share one.
func buildScene(rng *rand.Rand, opts options) *tessera.Scene {
	texs := make([]*softgpu.Texture, opts.textures)
	for i := range texs {
		hue := float64(i) / float64(opts.textures)
		c := tessera.Color{
			R: 0.5 + 0.5*math.Cos(2*math.Pi*hue),
			G: 0.5 + 0.5*math.Cos(2*math.Pi*(hue-1.0/3)),
			B: 0.5 + 0.5*math.Cos(2*math.Pi*(hue-2.0/3)),
			A: 1,
		}
		texs[i] = softgpu.NewSolidTexture(8, 8, c, i%2 == 0)
	}

	scene := tessera.NewScene()
	for i := 0; i < opts.sprites; i++ {
		n := tessera.NewSprite(fmt.Sprintf("sprite%d", i), texs[rng.IntN(len(texs))], tessera.TextureRegion{})
		n.SetPosition(rng.Float64()*float64(opts.width), rng.Float64()*float64(opts.height))
		n.SetScale(0.5+rng.Float64()*2, 0.5+rng.Float64()*2)
		n.SetPivot(4, 4)
		n.SetRotation(rng.Float64() * 2 * math.Pi)
		n.SetAlpha(0.5 + rng.Float64()*0.5)
		if opts.blendMix && rng.IntN(4) == 0 {
			n.BlendMode = tessera.BlendAdd
		}
		scene.Root().AddChild(n)
	}
	return scene
}

func writePNG(path string, dev *softgpu.Device) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, dev.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

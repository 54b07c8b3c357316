// Command mplusc compiles an outline font into a bitmap font asset.
//
//	mplusc -font go-mono -size 16 -chars " ..=~" -o mono16.mpbf -preview mono16.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/runenames"

	"github.com/gogpu/mplus"
	"github.com/gogpu/mplus/asset"
	"github.com/gogpu/mplus/compiler"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

// listFlag collects a repeatable flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, " ") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type options struct {
	font      string
	fallback  string
	mono      bool
	mplus     bool
	size      float64
	weight    int
	width     int
	positions int
	depth     int
	hint      bool
	chars     listFlag
	scripts   listFlag
	strings   string
	kern      string
	output    string
	preview   string
	text      string
	list      bool
	verbose   bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("mplusc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.font, "font", "go", "typeface: go, go-mono, a font file or an installed font name")
	fs.StringVar(&o.fallback, "fallback", "", "typeface supplying glyphs the primary one lacks")
	fs.BoolVar(&o.mono, "mono", false, "treat the typeface as fixed-pitch")
	fs.BoolVar(&o.mplus, "mplus", false, "typeface uses M+ glyph numbering and metrics")
	fs.Float64Var(&o.size, "size", 16, "font size in pixels per em")
	fs.IntVar(&o.weight, "weight", compiler.Regular, "font weight")
	fs.IntVar(&o.width, "width", compiler.WidthNormal, "font width of fixed-pitch typefaces")
	fs.IntVar(&o.positions, "positions", 4, "number of sub-pixel positions")
	fs.IntVar(&o.depth, "depth", 4, "bits per pixel: 1, 2, 4 or 8")
	fs.BoolVar(&o.hint, "hint", false, "hint outlines")
	fs.Var(&o.chars, "chars", "character range such as \"a..=z\" (repeatable)")
	fs.Var(&o.scripts, "script", "Unicode script name such as Hiragana (repeatable)")
	fs.StringVar(&o.strings, "strings", "", "comma-separated strings, e.g. ligatures")
	fs.StringVar(&o.kern, "kern", "", "comma-separated strings to kern against every -chars character")
	fs.StringVar(&o.output, "o", "font.mpbf", "output asset file")
	fs.StringVar(&o.preview, "preview", "", "write a PNG preview of -text")
	fs.StringVar(&o.text, "text", "The quick brown fox jumps over the lazy dog.", "preview text")
	fs.BoolVar(&o.list, "list", false, "print the compiled entries")
	fs.BoolVar(&o.verbose, "v", false, "log compiler progress")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("mplusc: unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return o, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// sources builds the compiler sources from the command line. Without any
// character flags, printable ASCII is compiled.
func (o *options) sources() ([]compiler.Source, error) {
	var sources []compiler.Source
	kern := splitList(o.kern)
	chars := o.chars
	if len(chars) == 0 && len(o.scripts) == 0 && o.strings == "" {
		chars = listFlag{"U+0020..=~"}
	}
	for _, expr := range chars {
		s, err := compiler.ParseSource(expr)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s.Kerned(kern...))
	}
	for _, name := range o.scripts {
		rt, ok := unicode.Scripts[name]
		if !ok {
			return nil, fmt.Errorf("mplusc: unknown script %q", name)
		}
		sources = append(sources, compiler.Table(rt))
	}
	if strs := splitList(o.strings); len(strs) > 0 {
		sources = append(sources, compiler.Strings(strs...))
	}
	return sources, nil
}

func (o *options) typeface() (*compiler.Typeface, error) {
	var opts []compiler.TypefaceOption
	if o.mono {
		opts = append(opts, compiler.Monospaced())
	}
	if o.mplus {
		opts = append(opts, compiler.WithMPLUSNumbering())
	}
	if o.fallback != "" {
		fb, err := compiler.Lookup(o.fallback)
		if err != nil {
			return nil, err
		}
		opts = append(opts, compiler.WithFallback(fb))
	}
	return compiler.Lookup(o.font, opts...)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	o, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}
	if o.verbose {
		mplus.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	tf, err := o.typeface()
	if err != nil {
		return err
	}
	sources, err := o.sources()
	if err != nil {
		return err
	}
	p, err := compiler.New(tf, float32(o.size),
		compiler.WithWeight(o.weight),
		compiler.WithWidth(o.width),
		compiler.WithPositions(o.positions),
		compiler.WithBitDepth(o.depth),
		compiler.WithHinting(o.hint),
		compiler.WithSources(sources...),
	)
	if err != nil {
		return err
	}

	font, err := compiler.Compile(ctx, p)
	if err != nil {
		return err
	}
	if err := asset.Save(o.output, font); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %d entries, line height %d\n", o.output, font.Charmap.Len(), font.LineHeight())

	if o.list {
		listEntries(stdout, font)
	}
	if o.preview != "" {
		if err := writePreview(o.preview, o.text, font); err != nil {
			return err
		}
	}
	return nil
}

func listEntries(w io.Writer, font *mplus.BitmapFont) {
	for e := range font.Charmap.All() {
		name := ""
		if r, n := utf8.DecodeRuneInString(e.Key); n == len(e.Key) && r != utf8.RuneError {
			name = runenames.Name(r)
		}
		fmt.Fprintf(w, "%q\t%d glyphs\tadvance %g\t%d pairs\t%s\n",
			e.Key, e.Glyph.Len(), e.Advances.Default, e.Advances.Len(), name)
	}
}

func writePreview(path, text string, font *mplus.BitmapFont) error {
	style := mplus.NewStyleBuilder[mplus.Rgb888]().
		Font(font).
		TextColor(mplus.Rgb888{R: 255, G: 255, B: 255}).
		BackgroundColor(mplus.Rgb888{R: 24, G: 24, B: 32}).
		Build()
	const margin = 4
	m := style.MeasureString(text, image.Pt(margin, margin), mplus.Top)
	w := max(1, int(m.BoundingBox.X)+int(m.BoundingBox.Width)+margin, m.NextPosition.X+margin)
	h := int(style.LineHeight()) + 2*margin
	pm := mplus.NewPixmap(w, h)
	pm.Clear(mplus.Rgb888{R: 24, G: 24, B: 32})
	if _, err := style.DrawString(text, image.Pt(margin, margin), mplus.Top, pm); err != nil {
		return fmt.Errorf("mplusc: preview: %w", err)
	}
	return pm.SavePNG(path)
}

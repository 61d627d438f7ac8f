package blueprint

import (
	"time"

	"gossipc/internal/compliance"
	"gossipc/internal/extractor"
	"gossipc/internal/graph"
	"gossipc/internal/schema"

	"go.uber.org/zap"
)

// Compiler turns GOSSIP source into blueprints. It is safe to reuse and to
// share between goroutines: every call builds its own actors, components
// and graph.
type Compiler struct {
	standard    string
	compilerID  string
	clock       func() time.Time
	synthesizer *schema.Synthesizer
	validator   *compliance.Validator
	logger      *zap.Logger
}

type Option func(*Compiler)

// WithMetadata sets the standard name and compiler identifier.
func WithMetadata(standard, compilerID string) Option {
	return func(c *Compiler) {
		c.standard = standard
		c.compilerID = compilerID
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock(clock func() time.Time) Option {
	return func(c *Compiler) { c.clock = clock }
}

func WithSynthesizer(s *schema.Synthesizer) Option {
	return func(c *Compiler) { c.synthesizer = s }
}

func WithValidator(v *compliance.Validator) Option {
	return func(c *Compiler) { c.validator = v }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Compiler) { c.logger = l }
}

// NewCompiler creates a compiler with default metadata, engineering
// defaults and the standard compliance checks.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		standard:    DefaultStandard,
		compilerID:  DefaultCompiler,
		clock:       time.Now,
		synthesizer: schema.NewSynthesizer(schema.DefaultDefaults()),
		validator:   compliance.NewDefaultValidator(compliance.DefaultPolicy()),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compilation is everything a single Analyze call produced.
type Compilation struct {
	Blueprint *Blueprint
	Graph     *graph.Graph
	Anomalies []extractor.Anomaly
	Report    compliance.Report
}

// Translation is the output of the SchematicNode path.
type Translation struct {
	Nodes     []schema.SchematicNode
	Graph     *graph.Graph
	Anomalies []extractor.Anomaly
}

// Compile builds a compliant blueprint from source, or fails with
// *NoActorsFoundError, *NameConflictError or *NonCompliantError.
func (c *Compiler) Compile(source string) (*Blueprint, error) {
	res, err := c.Analyze(source)
	if err != nil {
		return nil, err
	}
	return res.Blueprint, nil
}

// Analyze runs extraction, synthesis and validation and returns the
// blueprint together with the connection graph and diagnostics.
func (c *Compiler) Analyze(source string) (*Compilation, error) {
	actors, anomalies, err := c.extract(source)
	if err != nil {
		return nil, err
	}

	components := c.synthesizer.SynthesizeAll(actors)
	report := c.validator.Validate(components)
	if !report.Passed {
		c.logger.Warn("blueprint rejected",
			zap.String("standard", c.standard),
			zap.Strings("failing_checks", checkNames(report.Failing())),
		)
		return nil, &NonCompliantError{Standard: c.standard, Components: components, Report: report}
	}

	g := c.link(actors)
	bp := &Blueprint{
		metadata: Metadata{
			Standard:  c.standard,
			Timestamp: c.clock().Format(time.RFC3339),
			Compiler:  c.compilerID,
		},
		components: components,
	}
	c.logger.Debug("blueprint compiled",
		zap.Int("components", len(components)),
		zap.Int("connections", len(g.Edges)),
		zap.Int("anomalies", len(anomalies)),
	)

	return &Compilation{Blueprint: bp, Graph: g, Anomalies: anomalies, Report: report}, nil
}

// Translate projects source into SchematicNodes. No compliance state is
// attached to the result.
func (c *Compiler) Translate(source string) (*Translation, error) {
	actors, anomalies, err := c.extract(source)
	if err != nil {
		return nil, err
	}
	return &Translation{
		Nodes:     c.synthesizer.TranslateAll(actors),
		Graph:     c.link(actors),
		Anomalies: anomalies,
	}, nil
}

// extract runs the extractor and enforces that there is at least one actor
// and that names are unique.
func (c *Compiler) extract(source string) ([]extractor.Actor, []extractor.Anomaly, error) {
	res := extractor.Extract(source)
	for _, a := range res.Anomalies {
		c.logger.Warn("skipped actor declaration",
			zap.Int("line", a.Line),
			zap.String("reason", a.Reason),
		)
	}
	if len(res.Actors) == 0 {
		return nil, nil, &NoActorsFoundError{Anomalies: res.Anomalies}
	}

	lines := make(map[string][]int)
	for _, a := range res.Actors {
		lines[a.Name()] = append(lines[a.Name()], a.Line())
	}
	conflicts := make(map[string][]int)
	for name, l := range lines {
		if len(l) > 1 {
			conflicts[name] = l
		}
	}
	if len(conflicts) > 0 {
		return nil, nil, &NameConflictError{Names: conflicts}
	}

	return res.Actors, res.Anomalies, nil
}

func (c *Compiler) link(actors []extractor.Actor) *graph.Graph {
	g := graph.Build(actors)
	for _, u := range g.Unresolved {
		c.logger.Debug("unresolved send",
			zap.String("from", u.From),
			zap.String("target", u.Target),
			zap.String("reason", string(u.Reason)),
		)
	}
	return g
}

func checkNames(ids []compliance.CheckID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

package batch

import (
	"testing"

	"github.com/conveyor-go/conveyor/internal/testutil"
	cverrors "github.com/conveyor-go/conveyor/pkg/common/errors"
)

func TestBuildStartsBatch(t *testing.T) {
	b, err := Build(func(c *Builder) {
		c.Stage("upper", upper)
		c.Stage("exclaim", exclaim)
	})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, b.State(), Running)

	testutil.AssertNoError(t, b.Push("go"))
	results, err := b.Results()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, results[0].Data, "GO!")
}

func TestBuildDefaultWorkers(t *testing.T) {
	b, err := Build(func(c *Builder) {
		c.Stage("only", passthrough)
	})
	testutil.AssertNoError(t, err)

	stats := b.Stats()
	testutil.AssertEqual(t, stats.StageStats["only"].Workers, DefaultWorkers)

	_, err = b.Results()
	testutil.AssertNoError(t, err)
}

func TestBuildExplicitWorkers(t *testing.T) {
	b, err := Build(func(c *Builder) {
		c.StageWorkers("wide", passthrough, 9)
	})
	testutil.AssertNoError(t, err)

	stats := b.Stats()
	testutil.AssertEqual(t, stats.StageStats["wide"].Workers, 9)

	_, err = b.Results()
	testutil.AssertNoError(t, err)
}

func TestBuildPropagatesConfigError(t *testing.T) {
	b, err := Build(func(c *Builder) {
		c.StageWorkers("broken", passthrough, -1)
	})
	testutil.AssertError(t, err)
	if !cverrors.IsConfig(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
	if b != nil {
		t.Error("batch should not be returned on build failure")
	}
}

func TestBuildRejectsEmptyDeclaration(t *testing.T) {
	b, err := Build(func(c *Builder) {})
	testutil.AssertError(t, err)
	if !cverrors.IsConfig(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
	if b != nil {
		t.Error("batch should not be returned on build failure")
	}
}

func TestBuilderChaining(t *testing.T) {
	builder := &Builder{}
	result := builder.Stage("a", passthrough).StageWorkers("b", passthrough, 2)
	testutil.AssertEqual(t, result, builder)
	testutil.AssertEqual(t, len(builder.stages), 2)
}

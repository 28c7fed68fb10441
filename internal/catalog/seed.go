package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/balanca/internal/model"
)

//go:embed schema.cue
var schemaCUE string

// ErrInvalidSeed is wrapped by every seed validation failure.
var ErrInvalidSeed = errors.New("invalid catalog file")

// Seed is a catalog file: item types with price and tare, products and
// optional settings.
type Seed struct {
	ItemTypes []model.ItemType `json:"item_types"`
	Products  []SeedProduct    `json:"products"`
	Settings  *model.Settings  `json:"settings"`
}

// SeedProduct is a product declared in a catalog file.
type SeedProduct struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	ItemType    string `json:"item_type"`
}

// LoadSeed reads and validates a YAML catalog file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return DecodeSeed(bytes.NewReader(data))
}

// DecodeSeed parses YAML from r and validates it against the catalog
// schema. Products must reference an item type declared in the same file.
func DecodeSeed(r io.Reader) (*Seed, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidSeed)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}

	value := schema.LookupPath(cue.ParsePath("#Catalog")).Unify(ctx.Encode(raw))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSeed, cueerrors.Details(err, nil))
	}

	var seed Seed
	if err := value.Decode(&seed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	declared := make(map[string]bool, len(seed.ItemTypes))
	for _, it := range seed.ItemTypes {
		if declared[it.Name] {
			return nil, fmt.Errorf("%w: item type %q declared twice", ErrInvalidSeed, it.Name)
		}
		declared[it.Name] = true
	}
	for _, p := range seed.Products {
		if !declared[p.ItemType] {
			return nil, fmt.Errorf("%w: product %q references unknown item type %q", ErrInvalidSeed, p.Description, p.ItemType)
		}
	}

	return &seed, nil
}

// Writer is the write side of the store a seed is applied to.
type Writer interface {
	UpsertUnitPrice(ctx context.Context, itemType string, price float64) error
	UpsertTareWeight(ctx context.Context, itemType string, tareKg float64) error
	ListProducts(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, p model.Product) (model.Product, error)
	UpdateSettings(ctx context.Context, s model.Settings) error
}

// ApplyResult counts what Apply changed.
type ApplyResult struct {
	ItemTypes       int  `json:"item_types"`
	Products        int  `json:"products"`
	SkippedProducts int  `json:"skipped_products"`
	Settings        bool `json:"settings"`
}

// Apply upserts every item type's price and tare, creates the products that
// do not already exist (same item type and description), and replaces the
// settings when the seed carries them. Apply stops at the first error.
func Apply(ctx context.Context, w Writer, seed *Seed) (ApplyResult, error) {
	var res ApplyResult

	for _, it := range seed.ItemTypes {
		if err := w.UpsertUnitPrice(ctx, it.Name, it.Price); err != nil {
			return res, err
		}
		if err := w.UpsertTareWeight(ctx, it.Name, it.TareKg); err != nil {
			return res, err
		}
		res.ItemTypes++
	}

	existing, err := w.ListProducts(ctx)
	if err != nil {
		return res, err
	}
	have := make(map[[2]string]bool, len(existing))
	for _, p := range existing {
		have[[2]string{p.ItemType, p.Description}] = true
	}
	for _, p := range seed.Products {
		k := [2]string{p.ItemType, p.Description}
		if have[k] {
			res.SkippedProducts++
			continue
		}
		_, err := w.CreateProduct(ctx, model.Product{Code: p.Code, Description: p.Description, ItemType: p.ItemType})
		if err != nil {
			return res, err
		}
		have[k] = true
		res.Products++
	}

	if seed.Settings != nil {
		if err := w.UpdateSettings(ctx, *seed.Settings); err != nil {
			return res, err
		}
		res.Settings = true
	}

	return res, nil
}

// Package seed loads a campaign (players, characters, world items, coupons)
// from a YAML file into an empty database.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/erazemk/maskarada/internal/imaging"
	"github.com/erazemk/maskarada/internal/model"
	"github.com/erazemk/maskarada/internal/store"
)

// Campaign is the seed file layout.
type Campaign struct {
	Users      []User      `yaml:"users"`
	Characters []Character `yaml:"characters"`
	ItemTypes  []string    `yaml:"item_types"`
	Containers []Container `yaml:"containers"`
	Coupons    []Coupon    `yaml:"coupons"`

	// Dir resolves portrait paths, normally the campaign file's directory.
	Dir fs.FS `yaml:"-"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type Character struct {
	Name      string              `yaml:"name"`
	Player    string              `yaml:"player"`
	Health    int                 `yaml:"health"`
	Blood     int                 `yaml:"blood"`
	Balance   int64               `yaml:"balance"`
	Traits    map[string][]string `yaml:"traits"`
	Companies []Company           `yaml:"companies"`
	Portrait  string              `yaml:"portrait"`
}

type Company struct {
	Name    string  `yaml:"name"`
	Level   int     `yaml:"level"`
	Visible bool    `yaml:"visible"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
}

type Container struct {
	Name    string `yaml:"name"`
	Content string `yaml:"content"`
	Items   []Item `yaml:"items"`
}

type Item struct {
	Name    string `yaml:"name"`
	Content string `yaml:"content"`
	Type    string `yaml:"type"`
}

type Coupon struct {
	Address string `yaml:"address"`
	Usage   int    `yaml:"usage"`
	Effect  string `yaml:"effect"`
}

// Summary counts what Load created.
type Summary struct {
	Users      int
	Characters int
	Containers int
	Items      int
	Coupons    int
}

// Parse decodes a campaign, rejecting unknown fields.
func Parse(r io.Reader) (*Campaign, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Campaign
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding campaign: %w", err)
	}
	return &c, nil
}

// Load writes the campaign into db. Starting balances are recorded as
// credits so the ledger audit stays balanced.
func Load(ctx context.Context, db *sql.DB, c *Campaign, by *int64) (*Summary, error) {
	var sum Summary

	players := map[string]int64{}
	for _, u := range c.Users {
		role := u.Role
		if role == "" {
			role = model.RolePlayer
		}
		if !model.ValidRole(role) {
			return nil, fmt.Errorf("user %s: invalid role %q", u.Username, role)
		}
		if err := model.ValidatePassword(u.Password); err != nil {
			return nil, fmt.Errorf("user %s: %w", u.Username, err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password for %s: %w", u.Username, err)
		}
		created, err := store.CreateUser(ctx, db, u.Username, string(hash), role)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", u.Username, err)
		}
		players[u.Username] = created.ID
		sum.Users++
	}

	for _, ch := range c.Characters {
		if err := loadCharacter(ctx, db, c.Dir, ch, players, by); err != nil {
			return nil, fmt.Errorf("character %s: %w", ch.Name, err)
		}
		sum.Characters++
	}

	types := map[string]int64{}
	for _, name := range c.ItemTypes {
		t, err := store.CreateItemType(ctx, db, name)
		if err != nil {
			return nil, fmt.Errorf("item type %s: %w", name, err)
		}
		types[name] = t.ID
	}

	for _, ct := range c.Containers {
		container, err := store.CreateContainer(ctx, db, ct.Name, ct.Content)
		if err != nil {
			return nil, fmt.Errorf("container %s: %w", ct.Name, err)
		}
		sum.Containers++

		for _, it := range ct.Items {
			var typeID *int64
			if it.Type != "" {
				id, ok := types[it.Type]
				if !ok {
					return nil, fmt.Errorf("item %s: unknown type %q", it.Name, it.Type)
				}
				typeID = &id
			}
			if _, err := store.CreateItem(ctx, db, it.Name, it.Content, typeID, container.ID); err != nil {
				return nil, fmt.Errorf("item %s: %w", it.Name, err)
			}
			sum.Items++
		}
	}

	for _, cp := range c.Coupons {
		if _, err := store.CreateCoupon(ctx, db, cp.Address, cp.Usage, cp.Effect); err != nil {
			return nil, fmt.Errorf("coupon %s: %w", cp.Address, err)
		}
		sum.Coupons++
	}

	return &sum, nil
}

func loadCharacter(ctx context.Context, db *sql.DB, dir fs.FS, ch Character, players map[string]int64, by *int64) error {
	var userID *int64
	if ch.Player != "" {
		id, ok := players[ch.Player]
		if !ok {
			return fmt.Errorf("unknown player %q", ch.Player)
		}
		userID = &id
	}

	created, err := store.CreateCharacter(ctx, db, ch.Name, userID)
	if err != nil {
		return err
	}
	if ch.Health != 0 || ch.Blood != 0 {
		if err := store.UpdateCharacter(ctx, db, created.ID, ch.Name, ch.Health, ch.Blood); err != nil {
			return err
		}
	}

	for kind, names := range ch.Traits {
		k, err := model.ParseTraitKind(kind)
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := store.AddTrait(ctx, db, created.ID, model.Trait{Kind: k, Name: name}); err != nil {
				return err
			}
		}
	}

	if ch.Balance > 0 {
		acct, err := store.GetPersonalAccount(ctx, db, created.ID)
		if err != nil {
			return err
		}
		if _, err := store.CreditAccount(ctx, db, acct.ID, ch.Balance, "seed", by); err != nil {
			return err
		}
	}

	for _, co := range ch.Companies {
		_, err := store.CreateCompany(ctx, db, model.Company{
			Name:        co.Name,
			Level:       co.Level,
			IsActive:    true,
			IsVisible:   co.Visible,
			CoordX:      co.X,
			CoordY:      co.Y,
			CharacterID: created.ID,
		})
		if err != nil {
			return fmt.Errorf("company %s: %w", co.Name, err)
		}
	}

	if ch.Portrait != "" {
		if err := loadPortrait(ctx, db, dir, created.ID, ch.Portrait); err != nil {
			return fmt.Errorf("portrait %s: %w", ch.Portrait, err)
		}
	}
	return nil
}

func loadPortrait(ctx context.Context, db *sql.DB, dir fs.FS, characterID int64, name string) error {
	if dir == nil {
		return errors.New("no directory to read portraits from")
	}
	f, err := dir.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := imaging.Portrait(f)
	if err != nil {
		return err
	}
	return store.SetPortrait(ctx, db, characterID, data, imaging.PortraitMIME)
}

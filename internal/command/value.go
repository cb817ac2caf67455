package command

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// ValueKind tags the declared type of a command parameter.
type ValueKind int

// Parameter kinds, mirroring the option types commands declare.
const (
	KindString ValueKind = iota
	KindInt
	KindBool
	KindUser
	KindChannel
)

// String returns the kind name for logs and error messages.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindUser:
		return "user"
	case KindChannel:
		return "channel"
	default:
		return "unknown"
	}
}

// Value is a typed command parameter. Exactly the field matching Kind is
// populated; user and channel kinds carry a snowflake ID.
type Value struct {
	Kind ValueKind
	Str  string
	Int  int64
	Bool bool
	ID   snowflake.ID
}

// StringParam returns the named string parameter, or "" if absent.
func (inv *Invocation) StringParam(name string) string {
	if v, ok := inv.Params[name]; ok && v.Kind == KindString {
		return v.Str
	}
	return ""
}

// IntParam returns the named integer parameter, or 0 if absent.
func (inv *Invocation) IntParam(name string) int64 {
	if v, ok := inv.Params[name]; ok && v.Kind == KindInt {
		return v.Int
	}
	return 0
}

// BoolParam returns the named boolean parameter, or false if absent.
func (inv *Invocation) BoolParam(name string) bool {
	if v, ok := inv.Params[name]; ok && v.Kind == KindBool {
		return v.Bool
	}
	return false
}

// IDParam returns the named user or channel parameter, or 0 if absent.
func (inv *Invocation) IDParam(name string) snowflake.ID {
	if v, ok := inv.Params[name]; ok && (v.Kind == KindUser || v.Kind == KindChannel) {
		return v.ID
	}
	return 0
}

// BindOptions validates the raw interaction options against the
// descriptor's declared schema and populates inv.Params with typed values.
// Unknown options and type mismatches reject the whole invocation so
// handlers never see a loosely typed parameter bag.
func BindOptions(
	inv *Invocation,
	desc Descriptor,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	declared := make(map[string]*discordgo.ApplicationCommandOption, len(desc.Options))
	for _, opt := range desc.Options {
		declared[opt.Name] = opt
	}

	for _, opt := range options {
		decl, ok := declared[opt.Name]
		if !ok {
			return fmt.Errorf("command %s: undeclared option %q", desc.Name, opt.Name)
		}
		if opt.Type != decl.Type {
			return fmt.Errorf("command %s: option %q has type %v, declared %v",
				desc.Name, opt.Name, opt.Type, decl.Type)
		}

		value, err := bindValue(opt)
		if err != nil {
			return fmt.Errorf("command %s: option %q: %w", desc.Name, opt.Name, err)
		}
		inv.Params[opt.Name] = value
	}

	for _, decl := range desc.Options {
		if decl.Required {
			if _, ok := inv.Params[decl.Name]; !ok {
				return fmt.Errorf("command %s: required option %q missing", desc.Name, decl.Name)
			}
		}
	}

	return nil
}

func bindValue(opt *discordgo.ApplicationCommandInteractionDataOption) (Value, error) {
	switch opt.Type {
	case discordgo.ApplicationCommandOptionString:
		s, ok := opt.Value.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected string, got %T", opt.Value)
		}
		return Value{Kind: KindString, Str: s}, nil
	case discordgo.ApplicationCommandOptionInteger:
		// discordgo decodes JSON numbers as float64.
		f, ok := opt.Value.(float64)
		if !ok {
			return Value{}, fmt.Errorf("expected integer, got %T", opt.Value)
		}
		return Value{Kind: KindInt, Int: int64(f)}, nil
	case discordgo.ApplicationCommandOptionBoolean:
		b, ok := opt.Value.(bool)
		if !ok {
			return Value{}, fmt.Errorf("expected boolean, got %T", opt.Value)
		}
		return Value{Kind: KindBool, Bool: b}, nil
	case discordgo.ApplicationCommandOptionUser, discordgo.ApplicationCommandOptionChannel:
		s, ok := opt.Value.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected snowflake id, got %T", opt.Value)
		}
		id, err := snowflake.Parse(s)
		if err != nil {
			return Value{}, fmt.Errorf("invalid snowflake %q: %w", s, err)
		}
		kind := KindUser
		if opt.Type == discordgo.ApplicationCommandOptionChannel {
			kind = KindChannel
		}
		return Value{Kind: kind, ID: id}, nil
	default:
		return Value{}, fmt.Errorf("unsupported option type %v", opt.Type)
	}
}

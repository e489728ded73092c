package formats

import (
	"errors"
	"fmt"
)

// ErrUnknownObjectKind reports a dynamic object section header whose id does
// not match any known kind. Unknown kinds cannot be skipped: the payload
// length is not recorded on disk, so decoding cannot resynchronize.
var ErrUnknownObjectKind = errors.New("unknown dynamic object kind")

// DynamicObjectKind discriminates the payload grammar of a dynamic object.
// The value is the section header id of the object's record.
type DynamicObjectKind uint32

// Dynamic object kinds observed across the retail map sets.
const (
	KindDynamic              DynamicObjectKind = 14
	KindAnimation            DynamicObjectKind = 15
	KindRepeatableTouchplate DynamicObjectKind = 16
	KindGlass                DynamicObjectKind = 20
	KindOneTimeTouchplate    DynamicObjectKind = 25
	KindHalo                 DynamicObjectKind = 31
	KindStaticEffect         DynamicObjectKind = 36
)

// String returns a human-readable kind name.
func (k DynamicObjectKind) String() string {
	switch k {
	case KindDynamic:
		return "Dynamic"
	case KindAnimation:
		return "Animation"
	case KindRepeatableTouchplate:
		return "RepeatableTouchplate"
	case KindGlass:
		return "Glass"
	case KindOneTimeTouchplate:
		return "OneTimeTouchplate"
	case KindHalo:
		return "Halo"
	case KindStaticEffect:
		return "StaticEffect"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(k))
	}
}

// DynamicObjects is the list of non-static level objects: doors, breakable
// glass, touchplates, light halos and effect emitters.
type DynamicObjects struct {
	ID      uint32
	Name    string
	Objects []DynamicObject
}

// DynamicObject is one dynamic object record. Kind selects which of the
// payload pointers is non-nil; a StaticEffect carries no payload at all.
type DynamicObject struct {
	Kind      DynamicObjectKind
	Name      string
	Transform Transform

	Dynamic              *DynamicPayload
	Animation            *AnimationPayload
	RepeatableTouchplate *TouchplatePayload
	Glass                *GlassPayload
	OneTimeTouchplate    *OneTimePayload
	Halo                 *HaloPayload
}

// ObjectCommon is the block shared by Dynamic, Animation and
// RepeatableTouchplate payloads.
type ObjectCommon struct {
	Transform Transform
	Name      string
	Unknown   uint32

	SoundOpen   string
	SoundClose  string
	SoundOpened string
	SoundClosed string

	Collision2D          string
	Collision3D          string
	DestructionAction    string
	DestructionCategory  string
	PenetrationType      string
	Name2                string
	DestructionCategory2 string
}

// DynamicPayload is the payload of a Dynamic (kind 14) object.
type DynamicPayload struct {
	Common ObjectCommon
	Params DynamicParams
}

// DynamicParams is the trailing parameter block of a Dynamic object. The
// leading count selects one of two mutually exclusive layouts: a positive
// count is followed by that many parameter structs, while a zero count is
// followed by a second, independent count of flat name strings plus four
// floats. Exactly one of Structs and Flat is set.
type DynamicParams struct {
	Structs []DynamicParamStruct
	Flat    *FlatParams
}

// DynamicParamStruct is one entry of the struct-form parameter list.
type DynamicParamStruct struct {
	Name     string
	Floats   [9]float32
	Unknown1 uint32
	Unknown2 uint32
}

// FlatParams is the flat-form parameter list.
type FlatParams struct {
	Names  []string
	Floats [4]float32
}

// AnimationPayload is the payload of an Animation (kind 15) object.
type AnimationPayload struct {
	Common ObjectCommon

	Unknown1 uint32
	Names    []string
	Floats   [3]float32
	Unknown2 uint32
	Name3    string
	Name4    string

	AnimationType string
	Direction     Vec3
	Distance      float32
	Velocity      float32
}

// TouchplatePayload is the payload of a RepeatableTouchplate (kind 16)
// object.
type TouchplatePayload struct {
	Common ObjectCommon

	Unknown     uint32
	Attachments []string
	Floats      [3]float32
	Names       []string
	Name2       string
	Name3       string

	AnimationType string
	Direction     Vec3
	Distance      float32
	Velocity      float32
}

// GlassPayload is the payload of a Glass (kind 20) object.
type GlassPayload struct {
	Name string
}

// OneTimePayload is the payload of a OneTimeTouchplate (kind 25) object.
type OneTimePayload struct {
	Collision2D string
	Collision3D string
	Floats      [6]float32
	Attachments []string
}

// HaloPayload is the payload of a Halo (kind 31) object.
type HaloPayload struct {
	Halos []Halo
}

// Halo is one light halo entry.
type Halo struct {
	Name   string
	Floats [8]float32
}

func parseDynamicObjects(rd *reader) (DynamicObjects, error) {
	id, name, err := rd.sectionHeader("dynamic objects")
	if err != nil {
		return DynamicObjects{}, err
	}

	n, err := rd.readU32("dynamic object count")
	if err != nil {
		return DynamicObjects{}, err
	}

	list := DynamicObjects{ID: id, Name: name, Objects: make([]DynamicObject, 0, rd.sliceCap(n, 66))}
	for i := uint32(0); i < n; i++ {
		obj, err := parseDynamicObject(rd)
		if err != nil {
			return DynamicObjects{}, fmt.Errorf("dynamic object %d of %d: %w", i, n, err)
		}
		list.Objects = append(list.Objects, obj)
	}
	return list, nil
}

func parseDynamicObject(rd *reader) (DynamicObject, error) {
	var obj DynamicObject

	kind, _, err := rd.sectionHeader("dynamic object")
	if err != nil {
		return DynamicObject{}, err
	}
	obj.Kind = DynamicObjectKind(kind)

	if obj.Name, err = rd.readString("dynamic object name"); err != nil {
		return DynamicObject{}, err
	}
	if obj.Transform, err = parseTransform(rd); err != nil {
		return DynamicObject{}, err
	}

	switch obj.Kind {
	case KindDynamic:
		obj.Dynamic, err = parseDynamicPayload(rd)
	case KindAnimation:
		obj.Animation, err = parseAnimationPayload(rd)
	case KindRepeatableTouchplate:
		obj.RepeatableTouchplate, err = parseTouchplatePayload(rd)
	case KindGlass:
		obj.Glass, err = parseGlassPayload(rd)
	case KindOneTimeTouchplate:
		obj.OneTimeTouchplate, err = parseOneTimePayload(rd)
	case KindHalo:
		obj.Halo, err = parseHaloPayload(rd)
	case KindStaticEffect:
		// Name and transform only, no payload.
	default:
		return DynamicObject{}, fmt.Errorf("%w: %d (%q)", ErrUnknownObjectKind, kind, obj.Name)
	}
	if err != nil {
		return DynamicObject{}, fmt.Errorf("%s payload: %w", obj.Kind, err)
	}
	return obj, nil
}

func parseObjectCommon(rd *reader) (ObjectCommon, error) {
	var c ObjectCommon
	var err error

	if c.Transform, err = parseTransform(rd); err != nil {
		return ObjectCommon{}, err
	}
	if c.Name, err = rd.readString("object name"); err != nil {
		return ObjectCommon{}, err
	}
	if c.Unknown, err = rd.readU32("object unknown"); err != nil {
		return ObjectCommon{}, err
	}

	if c.SoundOpen, err = rd.readString("sound open"); err != nil {
		return ObjectCommon{}, err
	}
	if c.SoundClose, err = rd.readString("sound close"); err != nil {
		return ObjectCommon{}, err
	}
	if c.SoundOpened, err = rd.readString("sound opened"); err != nil {
		return ObjectCommon{}, err
	}
	if c.SoundClosed, err = rd.readString("sound closed"); err != nil {
		return ObjectCommon{}, err
	}

	if c.Collision2D, err = rd.readString("2D collision material"); err != nil {
		return ObjectCommon{}, err
	}
	if c.Collision3D, err = rd.readString("3D collision material"); err != nil {
		return ObjectCommon{}, err
	}
	if c.DestructionAction, err = rd.readString("destruction action"); err != nil {
		return ObjectCommon{}, err
	}
	if c.DestructionCategory, err = rd.readString("destruction category"); err != nil {
		return ObjectCommon{}, err
	}
	if c.PenetrationType, err = rd.readString("penetration type"); err != nil {
		return ObjectCommon{}, err
	}
	if c.Name2, err = rd.readString("object name2"); err != nil {
		return ObjectCommon{}, err
	}
	if c.DestructionCategory2, err = rd.readString("destruction category2"); err != nil {
		return ObjectCommon{}, err
	}
	return c, nil
}

func parseDynamicPayload(rd *reader) (*DynamicPayload, error) {
	var p DynamicPayload
	var err error

	if p.Common, err = parseObjectCommon(rd); err != nil {
		return nil, err
	}
	if p.Params, err = parseDynamicParams(rd); err != nil {
		return nil, err
	}
	return &p, nil
}

func parseDynamicParams(rd *reader) (DynamicParams, error) {
	n, err := rd.readU32("param struct count")
	if err != nil {
		return DynamicParams{}, err
	}

	if n > 0 {
		params := DynamicParams{Structs: make([]DynamicParamStruct, 0, rd.sliceCap(n, 49))}
		for i := uint32(0); i < n; i++ {
			s, err := parseDynamicParamStruct(rd)
			if err != nil {
				return DynamicParams{}, fmt.Errorf("param struct %d of %d: %w", i, n, err)
			}
			params.Structs = append(params.Structs, s)
		}
		return params, nil
	}

	// Zero struct count switches to the flat layout: a second independent
	// count of names followed by four floats.
	n, err = rd.readU32("flat name count")
	if err != nil {
		return DynamicParams{}, err
	}
	flat := FlatParams{Names: make([]string, 0, rd.sliceCap(n, 5))}
	for i := uint32(0); i < n; i++ {
		name, err := rd.readString(fmt.Sprintf("flat name %d of %d", i, n))
		if err != nil {
			return DynamicParams{}, err
		}
		flat.Names = append(flat.Names, name)
	}
	for i := range flat.Floats {
		if flat.Floats[i], err = rd.readF32(fmt.Sprintf("flat float %d", i)); err != nil {
			return DynamicParams{}, err
		}
	}
	return DynamicParams{Flat: &flat}, nil
}

func parseDynamicParamStruct(rd *reader) (DynamicParamStruct, error) {
	var s DynamicParamStruct
	var err error

	if s.Name, err = rd.readString("param struct name"); err != nil {
		return DynamicParamStruct{}, err
	}
	for i := range s.Floats {
		if s.Floats[i], err = rd.readF32(fmt.Sprintf("param struct float %d", i)); err != nil {
			return DynamicParamStruct{}, err
		}
	}
	if s.Unknown1, err = rd.readU32("param struct unknown1"); err != nil {
		return DynamicParamStruct{}, err
	}
	if s.Unknown2, err = rd.readU32("param struct unknown2"); err != nil {
		return DynamicParamStruct{}, err
	}
	return s, nil
}

func parseAnimationPayload(rd *reader) (*AnimationPayload, error) {
	var p AnimationPayload
	var err error

	if p.Common, err = parseObjectCommon(rd); err != nil {
		return nil, err
	}
	if p.Unknown1, err = rd.readU32("animation unknown1"); err != nil {
		return nil, err
	}
	if p.Names, err = parseNameList(rd, "animation name"); err != nil {
		return nil, err
	}
	for i := range p.Floats {
		if p.Floats[i], err = rd.readF32(fmt.Sprintf("animation float %d", i)); err != nil {
			return nil, err
		}
	}
	if p.Unknown2, err = rd.readU32("animation unknown2"); err != nil {
		return nil, err
	}
	if p.Name3, err = rd.readString("animation name3"); err != nil {
		return nil, err
	}
	if p.Name4, err = rd.readString("animation name4"); err != nil {
		return nil, err
	}
	if p.AnimationType, err = rd.readString("animation type"); err != nil {
		return nil, err
	}
	if p.Direction, err = rd.readVec3("animation direction"); err != nil {
		return nil, err
	}
	if p.Distance, err = rd.readF32("animation distance"); err != nil {
		return nil, err
	}
	if p.Velocity, err = rd.readF32("animation velocity"); err != nil {
		return nil, err
	}
	return &p, nil
}

func parseTouchplatePayload(rd *reader) (*TouchplatePayload, error) {
	var p TouchplatePayload
	var err error

	if p.Common, err = parseObjectCommon(rd); err != nil {
		return nil, err
	}
	if p.Unknown, err = rd.readU32("touchplate unknown"); err != nil {
		return nil, err
	}
	if p.Attachments, err = parseNameList(rd, "touchplate attachment"); err != nil {
		return nil, err
	}
	for i := range p.Floats {
		if p.Floats[i], err = rd.readF32(fmt.Sprintf("touchplate float %d", i)); err != nil {
			return nil, err
		}
	}
	if p.Names, err = parseNameList(rd, "touchplate name"); err != nil {
		return nil, err
	}
	if p.Name2, err = rd.readString("touchplate name2"); err != nil {
		return nil, err
	}
	if p.Name3, err = rd.readString("touchplate name3"); err != nil {
		return nil, err
	}
	if p.AnimationType, err = rd.readString("touchplate animation type"); err != nil {
		return nil, err
	}
	if p.Direction, err = rd.readVec3("touchplate direction"); err != nil {
		return nil, err
	}
	if p.Distance, err = rd.readF32("touchplate distance"); err != nil {
		return nil, err
	}
	if p.Velocity, err = rd.readF32("touchplate velocity"); err != nil {
		return nil, err
	}
	return &p, nil
}

func parseGlassPayload(rd *reader) (*GlassPayload, error) {
	name, err := rd.readString("glass name")
	if err != nil {
		return nil, err
	}
	return &GlassPayload{Name: name}, nil
}

func parseOneTimePayload(rd *reader) (*OneTimePayload, error) {
	var p OneTimePayload
	var err error

	if p.Collision2D, err = rd.readString("2D collision material"); err != nil {
		return nil, err
	}
	if p.Collision3D, err = rd.readString("3D collision material"); err != nil {
		return nil, err
	}
	for i := range p.Floats {
		if p.Floats[i], err = rd.readF32(fmt.Sprintf("one-time touchplate float %d", i)); err != nil {
			return nil, err
		}
	}
	if p.Attachments, err = parseNameList(rd, "one-time touchplate attachment"); err != nil {
		return nil, err
	}
	return &p, nil
}

func parseHaloPayload(rd *reader) (*HaloPayload, error) {
	n, err := rd.readU32("halo count")
	if err != nil {
		return nil, err
	}

	p := HaloPayload{Halos: make([]Halo, 0, rd.sliceCap(n, 37))}
	for i := uint32(0); i < n; i++ {
		var h Halo
		if h.Name, err = rd.readString(fmt.Sprintf("halo name %d of %d", i, n)); err != nil {
			return nil, err
		}
		for j := range h.Floats {
			if h.Floats[j], err = rd.readF32(fmt.Sprintf("halo float %d", j)); err != nil {
				return nil, err
			}
		}
		p.Halos = append(p.Halos, h)
	}
	return &p, nil
}

func parseNameList(rd *reader, label string) ([]string, error) {
	n, err := rd.readU32(label + " count")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, rd.sliceCap(n, 5))
	for i := uint32(0); i < n; i++ {
		name, err := rd.readString(fmt.Sprintf("%s %d of %d", label, i, n))
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

package formats

import (
	"errors"
	"fmt"
	"os"
)

// MAP format errors.
var (
	ErrInvalidMAPMagic    = errors.New("invalid MAP magic: expected 'BeginMapv2.1'")
	ErrMissingMAPEnd      = errors.New("missing MAP end: expected 'EndMap'")
	ErrUnknownAddressMode = errors.New("unknown texture address mode")
)

const (
	mapMagic = "BeginMapv2.1"
	mapEnd   = "EndMap"
)

// Vec3 is a 3-component float vector.
type Vec3 struct {
	X, Y, Z float32
}

// Color4 is an RGBA color with float components.
type Color4 struct {
	R, G, B, A float32
}

// Transform is a 3x4 transformation: three axis vectors and a position.
type Transform struct {
	XAxis    Vec3
	YAxis    Vec3
	ZAxis    Vec3
	Position Vec3
}

// Map represents a parsed level-geometry container. The eight top-level
// sections appear in the struct in the order they appear on disk. Where the
// on-disk format has explicit list lengths, the decoded tree uses slices and
// omits the length.
//
// Known to work with Rogue Spear, Urban Operations and Covert Ops maps.
type Map struct {
	Header         MapHeader
	Materials      Materials
	Geometries     Geometries
	Portals        Portals
	Lights         Lights
	DynamicObjects DynamicObjects
	Rooms          Rooms
	Transitions    Transitions
	PlanningLevels PlanningLevels
}

// MapHeader holds the file creation metadata.
type MapHeader struct {
	// Timestamp is the Unix timestamp of when the MAP file was created.
	Timestamp uint32
}

// Materials is the list of all materials for the level.
type Materials struct {
	ID        uint32
	Materials []Material
}

// Material is a texture reference with its rendering parameters.
type Material struct {
	ID               uint32
	Name             string
	Filename         string
	Opacity          float32
	EmissiveStrength uint32
	AddressMode      TextureAddressMode
	Ambient          Color4
	Diffuse          Color4
	Specular         Color4
	SpecularLevel    float32
	TwoSided         bool
}

// TextureAddressMode selects how texture coordinates outside [0,1] resolve.
type TextureAddressMode uint32

// Texture address modes. The on-disk value 2 does not occur.
const (
	AddressOpaque TextureAddressMode = 0
	AddressWrap   TextureAddressMode = 1
	AddressClamp  TextureAddressMode = 3
)

// String returns a human-readable address mode name.
func (m TextureAddressMode) String() string {
	switch m {
	case AddressOpaque:
		return "Opaque"
	case AddressWrap:
		return "Wrap"
	case AddressClamp:
		return "Clamp"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(m))
	}
}

// Geometries is the list of geometry objects for the level.
type Geometries struct {
	ID      uint32
	Objects []GeometryObject
}

// GeometryObject is one renderable object: vertices, per-material face data,
// collision geometry, tags and named index lists. Each object carries two
// consecutive section headers on disk; both are preserved.
type GeometryObject struct {
	ID           uint32
	Name         string
	ObjectID     uint32
	ObjectName   string
	Vertices     []Vec3
	Data         []ObjectData
	Collisions   Collisions
	Tags         []Tag
	NamedIndices []IndexedNames
}

// ObjectData groups the face and texture-vertex blocks for one material.
type ObjectData struct {
	Unknown         uint32
	Faces           Faces
	TextureVertices TextureVertices
}

// Faces holds three parallel arrays of equal length: one normal, one vertex
// index triple and one texture index triple per face.
type Faces struct {
	Normals        []FaceNormal
	VertexIndices  [][3]uint16
	TextureIndices [][3]uint16
}

// FaceNormal is a face plane: normal vector plus the distance from the origin
// to the face, where the sign encodes the normal direction.
type FaceNormal struct {
	Normal   Vec3
	Distance float32
}

// TextureVertices holds three parallel arrays of equal length: vertex
// normals, UV coordinates and face colors.
type TextureVertices struct {
	Normals    []Vec3
	UVs        []UV
	FaceColors []Color4
}

// UV is a texture coordinate pair.
type UV struct {
	U, V float32
}

// Collisions is the collision geometry of one object.
type Collisions struct {
	Vertices []Vec3
	Faces    []FaceNormal
}

// Tag is a pair of (coordinate triple, face index) markers.
type Tag struct {
	Coord1     [3]uint16
	FaceIndex1 uint16
	Coord2     [3]uint16
	FaceIndex2 uint16
}

// IndexedNames is a named variable-length index list.
type IndexedNames struct {
	Name    string
	Unknown uint32
	Indices []uint16
}

// Portals is the list of visibility portals between rooms.
type Portals struct {
	ID      uint32
	Name    string
	Portals []Portal
}

// Portal connects a room to its opposite room through a polygon.
type Portal struct {
	ID           uint32
	Name         string
	Coordinates  []Vec3
	Room         uint32
	OppositeRoom uint32
}

// Lights is the light list section. Every observed map stores a count of
// zero here; the per-light payload grammar is unknown and light data lives
// elsewhere in the game's asset set.
type Lights struct {
	ID         uint32
	Name       string
	LightCount uint32
}

// Rooms is the list of rooms for the level.
type Rooms struct {
	ID    uint32
	Name  string
	Rooms []Room
}

// Room is one room record. Three conditionally present fields follow the
// flag bytes and their presence must be evaluated in declared order: the
// presence of ExtBounds depends on the value of ExtFlag, which is itself
// optional.
//
// Known limitation: some map families (BT, CL) carry an unexplained extra
// 4 bytes between the room list and the transition list. The conditional
// logic governing those bytes is unknown, and this decoder does not attempt
// to guess it; affected files fail with a labeled error in the transition
// list.
type Room struct {
	ID   uint32
	Name string

	Flag1 uint8
	Flag2 uint8
	Flag3 uint8

	// ExtFlag is present when Flag1 == 0.
	ExtFlag *uint8
	// Bounds is present when Flag3 == 1.
	Bounds *[6]float32
	// ExtBounds is present when ExtFlag is present and equals 1.
	ExtBounds *[6]float32

	Levels []RoomLevel

	Unknown float32
	Heights []LevelHeight
}

// RoomLevel is one floor of a room, named after the engine's internal
// "Sherman level" records.
type RoomLevel struct {
	Name       string
	Transforms []TransformAABB
	Unknown1   []float32
	Unknown2   uint8
}

// TransformAABB pairs a transform with an axis-aligned bounding box.
type TransformAABB struct {
	Transform Transform
	AABB      [6]float32
}

// LevelHeight is one entry of a room's trailing height list.
type LevelHeight struct {
	Height  float32
	Unknown float32
}

// Transitions is the list of level transitions.
type Transitions struct {
	ID          uint32
	Name        string
	Transitions []Transition
}

// Transition is a named pair of points.
type Transition struct {
	Name string
	P1   Vec3
	P2   Vec3
}

// PlanningLevels is the list of mission-planning floor levels.
type PlanningLevels struct {
	ID     uint32
	Name   string
	Levels []PlanningLevel
}

// PlanningLevel maps a floor height to the rooms on that floor.
type PlanningLevel struct {
	LevelNumber float32
	FloorHeight float32
	RoomNames   []string
}

// ParseMAP parses a MAP file from raw bytes. The eight top-level sections are
// decoded strictly in their on-disk order; no partial Map is ever returned.
func ParseMAP(data []byte) (*Map, error) {
	rd := newReader(data)
	m := &Map{}

	var err error
	if m.Header, err = parseMapHeader(rd); err != nil {
		return nil, fmt.Errorf("MAP header: %w", err)
	}
	if m.Materials, err = parseMaterials(rd); err != nil {
		return nil, fmt.Errorf("material list: %w", err)
	}
	if m.Geometries, err = parseGeometries(rd); err != nil {
		return nil, fmt.Errorf("geometry list: %w", err)
	}
	if m.Portals, err = parsePortals(rd); err != nil {
		return nil, fmt.Errorf("portal list: %w", err)
	}
	if m.Lights, err = parseLights(rd); err != nil {
		return nil, fmt.Errorf("light list: %w", err)
	}
	if m.DynamicObjects, err = parseDynamicObjects(rd); err != nil {
		return nil, fmt.Errorf("dynamic object list: %w", err)
	}
	if m.Rooms, err = parseRooms(rd); err != nil {
		return nil, fmt.Errorf("room list: %w", err)
	}
	if m.Transitions, err = parseTransitions(rd); err != nil {
		return nil, fmt.Errorf("transition list: %w", err)
	}
	if m.PlanningLevels, err = parsePlanningLevels(rd); err != nil {
		return nil, fmt.Errorf("planning level list: %w", err)
	}

	end, err := rd.readString("end of map")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingMAPEnd, err)
	}
	if end != mapEnd {
		return nil, fmt.Errorf("%w: found %q", ErrMissingMAPEnd, end)
	}

	return m, nil
}

// ParseMAPFile parses a MAP file from disk.
func ParseMAPFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MAP file: %w", err)
	}
	return ParseMAP(data)
}

func parseMapHeader(rd *reader) (MapHeader, error) {
	magic, err := rd.readString("magic")
	if err != nil {
		return MapHeader{}, err
	}
	if magic != mapMagic {
		return MapHeader{}, fmt.Errorf("%w: found %q", ErrInvalidMAPMagic, magic)
	}

	timestamp, err := rd.readU32("file creation timestamp")
	if err != nil {
		return MapHeader{}, err
	}
	return MapHeader{Timestamp: timestamp}, nil
}

func parseMaterials(rd *reader) (Materials, error) {
	id, _, err := rd.sectionHeader("material list")
	if err != nil {
		return Materials{}, err
	}

	n, err := rd.readU32("material count")
	if err != nil {
		return Materials{}, err
	}

	list := Materials{ID: id, Materials: make([]Material, 0, rd.sliceCap(n, 13))}
	for i := uint32(0); i < n; i++ {
		mat, err := parseMaterial(rd)
		if err != nil {
			return Materials{}, fmt.Errorf("material %d: %w", i, err)
		}
		list.Materials = append(list.Materials, mat)
	}
	return list, nil
}

func parseMaterial(rd *reader) (Material, error) {
	var mat Material
	var err error

	if mat.ID, mat.Name, err = rd.sectionHeader("material"); err != nil {
		return Material{}, err
	}
	if mat.Filename, err = rd.readString("texture filename"); err != nil {
		return Material{}, err
	}
	if mat.Opacity, err = rd.readF32("opacity"); err != nil {
		return Material{}, err
	}
	if mat.EmissiveStrength, err = rd.readU32("emissive strength"); err != nil {
		return Material{}, err
	}

	mode, err := rd.readU32("texture address mode")
	if err != nil {
		return Material{}, err
	}
	switch TextureAddressMode(mode) {
	case AddressOpaque, AddressWrap, AddressClamp:
		mat.AddressMode = TextureAddressMode(mode)
	default:
		return Material{}, fmt.Errorf("%w: %d", ErrUnknownAddressMode, mode)
	}

	if mat.Ambient, err = parseColor4(rd, "ambient"); err != nil {
		return Material{}, err
	}
	if mat.Diffuse, err = parseColor4(rd, "diffuse"); err != nil {
		return Material{}, err
	}
	if mat.Specular, err = parseColor4(rd, "specular"); err != nil {
		return Material{}, err
	}
	if mat.SpecularLevel, err = rd.readF32("specular level"); err != nil {
		return Material{}, err
	}
	if mat.TwoSided, err = rd.readBool("two sided"); err != nil {
		return Material{}, err
	}
	return mat, nil
}

func parseColor4(rd *reader, label string) (Color4, error) {
	var c Color4
	var err error
	if c.R, err = rd.readF32(label + " red"); err != nil {
		return Color4{}, err
	}
	if c.G, err = rd.readF32(label + " green"); err != nil {
		return Color4{}, err
	}
	if c.B, err = rd.readF32(label + " blue"); err != nil {
		return Color4{}, err
	}
	if c.A, err = rd.readF32(label + " alpha"); err != nil {
		return Color4{}, err
	}
	return c, nil
}

func parseGeometries(rd *reader) (Geometries, error) {
	id, _, err := rd.sectionHeader("geometry list")
	if err != nil {
		return Geometries{}, err
	}

	n, err := rd.readU32("object count")
	if err != nil {
		return Geometries{}, err
	}

	list := Geometries{ID: id, Objects: make([]GeometryObject, 0, rd.sliceCap(n, 26))}
	for i := uint32(0); i < n; i++ {
		obj, err := parseGeometryObject(rd)
		if err != nil {
			return Geometries{}, fmt.Errorf("object %d: %w", i, err)
		}
		list.Objects = append(list.Objects, obj)
	}
	return list, nil
}

func parseGeometryObject(rd *reader) (GeometryObject, error) {
	var obj GeometryObject
	var err error

	if obj.ID, obj.Name, err = rd.sectionHeader("object"); err != nil {
		return GeometryObject{}, err
	}
	// A second section header always follows; an on-disk oddity of the
	// geometry grammar, preserved rather than collapsed.
	if obj.ObjectID, obj.ObjectName, err = rd.sectionHeader("inner object"); err != nil {
		return GeometryObject{}, err
	}

	n, err := rd.readU32("vertex count")
	if err != nil {
		return GeometryObject{}, err
	}
	obj.Vertices = make([]Vec3, 0, rd.sliceCap(n, 12))
	for i := uint32(0); i < n; i++ {
		v, err := rd.readVec3(fmt.Sprintf("vertex %d", i))
		if err != nil {
			return GeometryObject{}, err
		}
		obj.Vertices = append(obj.Vertices, v)
	}

	n, err = rd.readU32("object data count")
	if err != nil {
		return GeometryObject{}, err
	}
	obj.Data = make([]ObjectData, 0, rd.sliceCap(n, 12))
	for i := uint32(0); i < n; i++ {
		d, err := parseObjectData(rd)
		if err != nil {
			return GeometryObject{}, fmt.Errorf("object data %d: %w", i, err)
		}
		obj.Data = append(obj.Data, d)
	}

	if obj.Collisions, err = parseCollisions(rd); err != nil {
		return GeometryObject{}, err
	}

	n, err = rd.readU32("tag count")
	if err != nil {
		return GeometryObject{}, err
	}
	obj.Tags = make([]Tag, 0, rd.sliceCap(n, 16))
	for i := uint32(0); i < n; i++ {
		tag, err := parseTag(rd)
		if err != nil {
			return GeometryObject{}, fmt.Errorf("tag %d: %w", i, err)
		}
		obj.Tags = append(obj.Tags, tag)
	}

	n, err = rd.readU32("indexed name count")
	if err != nil {
		return GeometryObject{}, err
	}
	obj.NamedIndices = make([]IndexedNames, 0, rd.sliceCap(n, 13))
	for i := uint32(0); i < n; i++ {
		in, err := parseIndexedNames(rd)
		if err != nil {
			return GeometryObject{}, fmt.Errorf("indexed names %d: %w", i, err)
		}
		obj.NamedIndices = append(obj.NamedIndices, in)
	}

	return obj, nil
}

func parseObjectData(rd *reader) (ObjectData, error) {
	var d ObjectData
	var err error

	if d.Unknown, err = rd.readU32("object data unknown"); err != nil {
		return ObjectData{}, err
	}
	if d.Faces, err = parseFaces(rd); err != nil {
		return ObjectData{}, err
	}
	if d.TextureVertices, err = parseTextureVertices(rd); err != nil {
		return ObjectData{}, err
	}
	return d, nil
}

func parseFaces(rd *reader) (Faces, error) {
	n, err := rd.readU32("face count")
	if err != nil {
		return Faces{}, err
	}

	// Each face needs a 16-byte normal and two 6-byte index triples.
	capHint := rd.sliceCap(n, 28)
	f := Faces{
		Normals:        make([]FaceNormal, 0, capHint),
		VertexIndices:  make([][3]uint16, 0, capHint),
		TextureIndices: make([][3]uint16, 0, capHint),
	}

	for i := uint32(0); i < n; i++ {
		fn, err := parseFaceNormal(rd, fmt.Sprintf("face normal %d", i))
		if err != nil {
			return Faces{}, err
		}
		f.Normals = append(f.Normals, fn)
	}
	for i := uint32(0); i < n; i++ {
		tri, err := parseIndexTriple(rd, fmt.Sprintf("face index %d", i))
		if err != nil {
			return Faces{}, err
		}
		f.VertexIndices = append(f.VertexIndices, tri)
	}
	for i := uint32(0); i < n; i++ {
		tri, err := parseIndexTriple(rd, fmt.Sprintf("texture index %d", i))
		if err != nil {
			return Faces{}, err
		}
		f.TextureIndices = append(f.TextureIndices, tri)
	}
	return f, nil
}

func parseFaceNormal(rd *reader, label string) (FaceNormal, error) {
	var fn FaceNormal
	var err error
	if fn.Normal, err = rd.readVec3(label); err != nil {
		return FaceNormal{}, err
	}
	if fn.Distance, err = rd.readF32(label + " distance"); err != nil {
		return FaceNormal{}, err
	}
	return fn, nil
}

func parseIndexTriple(rd *reader, label string) ([3]uint16, error) {
	var tri [3]uint16
	for p := 0; p < 3; p++ {
		v, err := rd.readU16(fmt.Sprintf("p%d of %s", p+1, label))
		if err != nil {
			return [3]uint16{}, err
		}
		tri[p] = v
	}
	return tri, nil
}

func parseTextureVertices(rd *reader) (TextureVertices, error) {
	n, err := rd.readU32("texture vertex count")
	if err != nil {
		return TextureVertices{}, err
	}

	capHint := rd.sliceCap(n, 36)
	tv := TextureVertices{
		Normals:    make([]Vec3, 0, capHint),
		UVs:        make([]UV, 0, capHint),
		FaceColors: make([]Color4, 0, capHint),
	}

	for i := uint32(0); i < n; i++ {
		v, err := rd.readVec3(fmt.Sprintf("normal coordinate %d of %d", i, n))
		if err != nil {
			return TextureVertices{}, err
		}
		tv.Normals = append(tv.Normals, v)
	}
	for i := uint32(0); i < n; i++ {
		var uv UV
		if uv.U, err = rd.readF32(fmt.Sprintf("u of UV coordinate %d of %d", i, n)); err != nil {
			return TextureVertices{}, err
		}
		if uv.V, err = rd.readF32(fmt.Sprintf("v of UV coordinate %d of %d", i, n)); err != nil {
			return TextureVertices{}, err
		}
		tv.UVs = append(tv.UVs, uv)
	}
	for i := uint32(0); i < n; i++ {
		c, err := parseColor4(rd, fmt.Sprintf("face color %d of %d", i, n))
		if err != nil {
			return TextureVertices{}, err
		}
		tv.FaceColors = append(tv.FaceColors, c)
	}
	return tv, nil
}

func parseCollisions(rd *reader) (Collisions, error) {
	n, err := rd.readU32("collision vertex count")
	if err != nil {
		return Collisions{}, err
	}
	c := Collisions{Vertices: make([]Vec3, 0, rd.sliceCap(n, 12))}
	for i := uint32(0); i < n; i++ {
		v, err := rd.readVec3(fmt.Sprintf("collision vertex %d", i))
		if err != nil {
			return Collisions{}, err
		}
		c.Vertices = append(c.Vertices, v)
	}

	n, err = rd.readU32("collision face count")
	if err != nil {
		return Collisions{}, err
	}
	c.Faces = make([]FaceNormal, 0, rd.sliceCap(n, 16))
	for i := uint32(0); i < n; i++ {
		fn, err := parseFaceNormal(rd, fmt.Sprintf("collision face normal %d", i))
		if err != nil {
			return Collisions{}, err
		}
		c.Faces = append(c.Faces, fn)
	}
	return c, nil
}

func parseTag(rd *reader) (Tag, error) {
	var tag Tag
	var err error
	if tag.Coord1, err = parseIndexTriple(rd, "tag coord1"); err != nil {
		return Tag{}, err
	}
	if tag.FaceIndex1, err = rd.readU16("tag face index 1"); err != nil {
		return Tag{}, err
	}
	if tag.Coord2, err = parseIndexTriple(rd, "tag coord2"); err != nil {
		return Tag{}, err
	}
	if tag.FaceIndex2, err = rd.readU16("tag face index 2"); err != nil {
		return Tag{}, err
	}
	return tag, nil
}

func parseIndexedNames(rd *reader) (IndexedNames, error) {
	var in IndexedNames
	var err error
	if in.Name, err = rd.readString("indexed name"); err != nil {
		return IndexedNames{}, err
	}
	if in.Unknown, err = rd.readU32("indexed name id"); err != nil {
		return IndexedNames{}, err
	}

	n, err := rd.readU32("index count")
	if err != nil {
		return IndexedNames{}, err
	}
	in.Indices = make([]uint16, 0, rd.sliceCap(n, 2))
	for i := uint32(0); i < n; i++ {
		v, err := rd.readU16(fmt.Sprintf("index %d", i))
		if err != nil {
			return IndexedNames{}, err
		}
		in.Indices = append(in.Indices, v)
	}
	return in, nil
}

func parsePortals(rd *reader) (Portals, error) {
	id, name, err := rd.sectionHeader("portal list")
	if err != nil {
		return Portals{}, err
	}

	n, err := rd.readU32("portal count")
	if err != nil {
		return Portals{}, err
	}

	list := Portals{ID: id, Name: name, Portals: make([]Portal, 0, rd.sliceCap(n, 13))}
	for i := uint32(0); i < n; i++ {
		p, err := parsePortal(rd)
		if err != nil {
			return Portals{}, fmt.Errorf("portal %d: %w", i, err)
		}
		list.Portals = append(list.Portals, p)
	}
	return list, nil
}

func parsePortal(rd *reader) (Portal, error) {
	var p Portal
	var err error
	if p.ID, p.Name, err = rd.sectionHeader("portal"); err != nil {
		return Portal{}, err
	}

	n, err := rd.readU32("coordinate count")
	if err != nil {
		return Portal{}, err
	}
	p.Coordinates = make([]Vec3, 0, rd.sliceCap(n, 12))
	for i := uint32(0); i < n; i++ {
		v, err := rd.readVec3(fmt.Sprintf("coordinate vertex %d", i))
		if err != nil {
			return Portal{}, err
		}
		p.Coordinates = append(p.Coordinates, v)
	}

	if p.Room, err = rd.readU32("room"); err != nil {
		return Portal{}, err
	}
	if p.OppositeRoom, err = rd.readU32("opposite room"); err != nil {
		return Portal{}, err
	}
	return p, nil
}

func parseLights(rd *reader) (Lights, error) {
	id, name, err := rd.sectionHeader("lights")
	if err != nil {
		return Lights{}, err
	}
	n, err := rd.readU32("light count")
	if err != nil {
		return Lights{}, err
	}
	return Lights{ID: id, Name: name, LightCount: n}, nil
}

func parseRooms(rd *reader) (Rooms, error) {
	id, name, err := rd.sectionHeader("rooms")
	if err != nil {
		return Rooms{}, err
	}

	n, err := rd.readU32("room count")
	if err != nil {
		return Rooms{}, err
	}

	list := Rooms{ID: id, Name: name, Rooms: make([]Room, 0, rd.sliceCap(n, 9))}
	for i := uint32(0); i < n; i++ {
		room, err := parseRoom(rd)
		if err != nil {
			return Rooms{}, fmt.Errorf("room %d: %w", i, err)
		}
		list.Rooms = append(list.Rooms, room)
	}
	return list, nil
}

func parseRoom(rd *reader) (Room, error) {
	var room Room
	var err error

	// Rooms use the short-form header: no leading byte size.
	if room.ID, room.Name, err = rd.sectionHeaderShort("room"); err != nil {
		return Room{}, err
	}

	if room.Flag1, err = rd.readU8("room flag1"); err != nil {
		return Room{}, err
	}
	if room.Flag2, err = rd.readU8("room flag2"); err != nil {
		return Room{}, err
	}
	if room.Flag3, err = rd.readU8("room flag3"); err != nil {
		return Room{}, err
	}

	// The three optional fields below must be evaluated in this order:
	// the presence of ExtBounds depends on the value of ExtFlag, which is
	// itself only present when Flag1 == 0.
	if room.Flag1 == 0 {
		v, err := rd.readU8("room extra flag")
		if err != nil {
			return Room{}, err
		}
		room.ExtFlag = &v
	}

	if room.Flag3 == 1 {
		var bounds [6]float32
		for i := range bounds {
			if bounds[i], err = rd.readF32(fmt.Sprintf("room bounds %d", i)); err != nil {
				return Room{}, err
			}
		}
		room.Bounds = &bounds
	}

	if room.ExtFlag != nil && *room.ExtFlag == 1 {
		var bounds [6]float32
		for i := range bounds {
			if bounds[i], err = rd.readF32(fmt.Sprintf("room extra bounds %d", i)); err != nil {
				return Room{}, err
			}
		}
		room.ExtBounds = &bounds
	}

	n, err := rd.readU32("room level count")
	if err != nil {
		return Room{}, err
	}
	room.Levels = make([]RoomLevel, 0, rd.sliceCap(n, 14))
	for i := uint32(0); i < n; i++ {
		level, err := parseRoomLevel(rd)
		if err != nil {
			return Room{}, fmt.Errorf("room level %d of %d: %w", i, n, err)
		}
		room.Levels = append(room.Levels, level)
	}

	// The count precedes the float; the height entries follow both.
	n, err = rd.readU32("room height count")
	if err != nil {
		return Room{}, err
	}
	if room.Unknown, err = rd.readF32("room height unknown"); err != nil {
		return Room{}, err
	}
	room.Heights = make([]LevelHeight, 0, rd.sliceCap(n, 8))
	for i := uint32(0); i < n; i++ {
		var h LevelHeight
		if h.Height, err = rd.readF32(fmt.Sprintf("level height %d of %d", i, n)); err != nil {
			return Room{}, err
		}
		if h.Unknown, err = rd.readF32(fmt.Sprintf("level height unknown %d of %d", i, n)); err != nil {
			return Room{}, err
		}
		room.Heights = append(room.Heights, h)
	}

	return room, nil
}

func parseRoomLevel(rd *reader) (RoomLevel, error) {
	var level RoomLevel
	var err error

	if level.Name, err = rd.readString("level name"); err != nil {
		return RoomLevel{}, err
	}

	n, err := rd.readU32("level transform count")
	if err != nil {
		return RoomLevel{}, err
	}
	level.Transforms = make([]TransformAABB, 0, rd.sliceCap(n, 72))
	for i := uint32(0); i < n; i++ {
		var ta TransformAABB
		if ta.Transform, err = parseTransform(rd); err != nil {
			return RoomLevel{}, fmt.Errorf("level transform %d: %w", i, err)
		}
		for j := range ta.AABB {
			if ta.AABB[j], err = rd.readF32(fmt.Sprintf("level AABB side %d", j)); err != nil {
				return RoomLevel{}, err
			}
		}
		level.Transforms = append(level.Transforms, ta)
	}

	n, err = rd.readU32("level unknown count")
	if err != nil {
		return RoomLevel{}, err
	}
	level.Unknown1 = make([]float32, 0, rd.sliceCap(n, 4))
	for i := uint32(0); i < n; i++ {
		v, err := rd.readF32(fmt.Sprintf("level unknown %d", i))
		if err != nil {
			return RoomLevel{}, err
		}
		level.Unknown1 = append(level.Unknown1, v)
	}

	if level.Unknown2, err = rd.readU8("level unknown2"); err != nil {
		return RoomLevel{}, err
	}
	return level, nil
}

func parseTransform(rd *reader) (Transform, error) {
	var tm Transform
	var err error
	if tm.XAxis, err = rd.readVec3("transform x-axis"); err != nil {
		return Transform{}, err
	}
	if tm.YAxis, err = rd.readVec3("transform y-axis"); err != nil {
		return Transform{}, err
	}
	if tm.ZAxis, err = rd.readVec3("transform z-axis"); err != nil {
		return Transform{}, err
	}
	if tm.Position, err = rd.readVec3("transform position"); err != nil {
		return Transform{}, err
	}
	return tm, nil
}

func parseTransitions(rd *reader) (Transitions, error) {
	id, name, err := rd.sectionHeader("transitions")
	if err != nil {
		return Transitions{}, err
	}

	n, err := rd.readU32("transition count")
	if err != nil {
		return Transitions{}, err
	}

	list := Transitions{ID: id, Name: name, Transitions: make([]Transition, 0, rd.sliceCap(n, 29))}
	for i := uint32(0); i < n; i++ {
		var tr Transition
		if tr.Name, err = rd.readString(fmt.Sprintf("transition %d of %d", i, n)); err != nil {
			return Transitions{}, err
		}
		if tr.P1, err = rd.readVec3("transition coords P1"); err != nil {
			return Transitions{}, err
		}
		if tr.P2, err = rd.readVec3("transition coords P2"); err != nil {
			return Transitions{}, err
		}
		list.Transitions = append(list.Transitions, tr)
	}
	return list, nil
}

func parsePlanningLevels(rd *reader) (PlanningLevels, error) {
	id, name, err := rd.sectionHeader("planning levels")
	if err != nil {
		return PlanningLevels{}, err
	}

	n, err := rd.readU32("planning level count")
	if err != nil {
		return PlanningLevels{}, err
	}

	list := PlanningLevels{ID: id, Name: name, Levels: make([]PlanningLevel, 0, rd.sliceCap(n, 12))}
	for i := uint32(0); i < n; i++ {
		level, err := parsePlanningLevel(rd)
		if err != nil {
			return PlanningLevels{}, fmt.Errorf("planning level %d of %d: %w", i, n, err)
		}
		list.Levels = append(list.Levels, level)
	}
	return list, nil
}

func parsePlanningLevel(rd *reader) (PlanningLevel, error) {
	var level PlanningLevel
	var err error

	if level.LevelNumber, err = rd.readF32("planning level number"); err != nil {
		return PlanningLevel{}, err
	}
	if level.FloorHeight, err = rd.readF32("planning level floor height"); err != nil {
		return PlanningLevel{}, err
	}

	n, err := rd.readU32("planning level room count")
	if err != nil {
		return PlanningLevel{}, err
	}
	level.RoomNames = make([]string, 0, rd.sliceCap(n, 5))
	for i := uint32(0); i < n; i++ {
		name, err := rd.readString(fmt.Sprintf("planning level room name %d of %d", i, n))
		if err != nil {
			return PlanningLevel{}, err
		}
		level.RoomNames = append(level.RoomNames, name)
	}
	return level, nil
}

package source

// The types below mirror the YAML scene document read by Load and Parse.
// Times are in seconds; rotations in degrees; matrices column-major.

type document struct {
	FormatVersion string        `yaml:"format_version"`
	Application   string        `yaml:"application"`
	OriginalFile  string        `yaml:"original_file"`
	FrameRate     float64       `yaml:"frame_rate"`
	UnitScale     float64       `yaml:"unit_scale"`
	Textures      []textureDoc  `yaml:"textures"`
	Materials     []materialDoc `yaml:"materials"`
	Takes         []takeDoc     `yaml:"takes"`
	Poses         []poseDoc     `yaml:"poses"`
	Root          *nodeDoc      `yaml:"root"`
}

type textureDoc struct {
	Name          string    `yaml:"name"`
	Kind          string    `yaml:"kind"`
	File          string    `yaml:"file"`
	RelativeFile  string    `yaml:"relative_file"`
	UVSet         string    `yaml:"uv_set"`
	UVTranslation []float64 `yaml:"uv_translation"`
	UVScaling     []float64 `yaml:"uv_scaling"`
	RotationW     float64   `yaml:"rotation_w"`
}

type materialDoc struct {
	Name               string              `yaml:"name"`
	Shading            string              `yaml:"shading"`
	Ambient            []float64           `yaml:"ambient"`
	Diffuse            []float64           `yaml:"diffuse"`
	Emissive           []float64           `yaml:"emissive"`
	Specular           []float64           `yaml:"specular"`
	TransparencyFactor float64             `yaml:"transparency_factor"`
	Shininess          float64             `yaml:"shininess"`
	SpecularFactor     float64             `yaml:"specular_factor"`
	Textures           map[string][]string `yaml:"textures"`
	Properties         []propertyDoc       `yaml:"properties"`
	Animation          animationDoc        `yaml:"animation"`
}

type takeDoc struct {
	Name   string   `yaml:"name"`
	Start  float64  `yaml:"start"`
	Stop   float64  `yaml:"stop"`
	Layers []string `yaml:"layers"`
}

type poseDoc struct {
	Name     string         `yaml:"name"`
	BindPose bool           `yaml:"bind_pose"`
	Entries  []poseEntryDoc `yaml:"entries"`
}

type poseEntryDoc struct {
	Node   string    `yaml:"node"`
	Matrix []float64 `yaml:"matrix"`
	Local  bool      `yaml:"local"`
}

type propertyDoc struct {
	Name   string    `yaml:"name"`
	Type   string    `yaml:"type"`
	Hidden bool      `yaml:"hidden"`
	Values []float64 `yaml:"values"`
	String string    `yaml:"string"`
	Enum   []string  `yaml:"enum"`
	Unit   float64   `yaml:"unit"`
}

// animationDoc is take -> layer -> property -> channel -> keys.
type animationDoc map[string]map[string]map[string]map[string][]keyDoc

type keyDoc struct {
	T float64 `yaml:"t"`
	V float64 `yaml:"v"`
	I string  `yaml:"i"`
}

type nodeDoc struct {
	Name                 string        `yaml:"name"`
	Visible              *bool         `yaml:"visible"`
	Selected             bool          `yaml:"selected"`
	Translation          []float64     `yaml:"translation"`
	Rotation             []float64     `yaml:"rotation"`
	Scaling              []float64     `yaml:"scaling"`
	GeometricTranslation []float64     `yaml:"geometric_translation"`
	GeometricRotation    []float64     `yaml:"geometric_rotation"`
	GeometricScaling     []float64     `yaml:"geometric_scaling"`
	Materials            []string      `yaml:"materials"`
	Properties           []propertyDoc `yaml:"properties"`
	Animation            animationDoc  `yaml:"animation"`
	Attribute            *attributeDoc `yaml:"attribute"`
	Children             []*nodeDoc    `yaml:"children"`
}

type attributeDoc struct {
	Type string `yaml:"type"`

	// mesh
	ControlPoints [][]float64  `yaml:"control_points"`
	Polygons      [][]int      `yaml:"polygons"`
	Normals       *elementDoc  `yaml:"normals"`
	Colors        *elementDoc  `yaml:"colors"`
	UVSets        []elementDoc `yaml:"uv_sets"`
	Skins         []skinDoc    `yaml:"skins"`

	// camera
	Position []float64 `yaml:"position"`
	Up       []float64 `yaml:"up"`
	Interest []float64 `yaml:"interest"`
	FOV      float64   `yaml:"fov"`
	Near     float64   `yaml:"near"`
	Far      float64   `yaml:"far"`

	// light
	LightType         string    `yaml:"light_type"`
	Color             []float64 `yaml:"color"`
	Intensity         float64   `yaml:"intensity"`
	Decay             int       `yaml:"decay"`
	CastShadows       bool      `yaml:"cast_shadows"`
	InnerAngle        float64   `yaml:"inner_angle"`
	OuterAngle        float64   `yaml:"outer_angle"`
	FarAttenuationEnd float64   `yaml:"far_attenuation_end"`

	// nurbs_curve
	Points [][]float64 `yaml:"points"`
	Closed bool        `yaml:"closed"`

	// skeleton
	Root bool `yaml:"root"`
}

type elementDoc struct {
	Name      string      `yaml:"name"`
	Mapping   string      `yaml:"mapping"`
	Reference string      `yaml:"reference"`
	Values    [][]float64 `yaml:"values"`
	Index     []int       `yaml:"index"`
}

type skinDoc struct {
	Name     string       `yaml:"name"`
	Clusters []clusterDoc `yaml:"clusters"`
}

type clusterDoc struct {
	Link    string    `yaml:"link"`
	Indices []int     `yaml:"indices"`
	Weights []float64 `yaml:"weights"`
}

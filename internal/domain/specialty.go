package domain

// Specialty is a fixed-vocabulary trade label. Job.JobType and
// Subcontractor.Specialties both draw from this set.
type Specialty string

const (
	SpecialtyTPORooferMaterials     Specialty = "TPO Roofer w/ Materials"
	SpecialtyTPORooferRepair        Specialty = "TPO Roofer Repair"
	SpecialtyTPORooferLabor         Specialty = "TPO Roofer Labor"
	SpecialtyShinglersMaterials     Specialty = "Shinglers w/ Materials"
	SpecialtyShinglersRepair        Specialty = "Shinglers repair"
	SpecialtyShinglersLabor         Specialty = "Shinglers Labor"
	SpecialtyMetalRoofingMaterials  Specialty = "Metal Roofing w/ Materials"
	SpecialtyMetalRoofingLabor      Specialty = "Metal Roofing Labor"
	SpecialtyMetalRoofingRepair     Specialty = "Metal Roofing Repair"
	SpecialtyClayTileMaterials      Specialty = "Clay Tile w/ Materials"
	SpecialtyClayTileRepair         Specialty = "Clay Tile Repair"
	SpecialtyClayTileLabor          Specialty = "Clay Tile Labor"
	SpecialtyGutterInstMaterials    Specialty = "Gutter Installer w/ Materials"
	SpecialtyGutterInstSeamless     Specialty = "Gutter Installer w/ Seamless"
	SpecialtyGutterInstLabor        Specialty = "Gutter Installer Labor"
	SpecialtyGutterRepair           Specialty = "Gutter Repair"
)

// AllSpecialties lists the closed specialty vocabulary in display order.
var AllSpecialties = []Specialty{
	SpecialtyTPORooferMaterials,
	SpecialtyTPORooferRepair,
	SpecialtyTPORooferLabor,
	SpecialtyShinglersMaterials,
	SpecialtyShinglersRepair,
	SpecialtyShinglersLabor,
	SpecialtyMetalRoofingMaterials,
	SpecialtyMetalRoofingLabor,
	SpecialtyMetalRoofingRepair,
	SpecialtyClayTileMaterials,
	SpecialtyClayTileRepair,
	SpecialtyClayTileLabor,
	SpecialtyGutterInstMaterials,
	SpecialtyGutterInstSeamless,
	SpecialtyGutterInstLabor,
	SpecialtyGutterRepair,
}

// ValidSpecialty reports whether sp belongs to the closed vocabulary.
func ValidSpecialty(sp Specialty) bool {
	for _, known := range AllSpecialties {
		if known == sp {
			return true
		}
	}
	return false
}

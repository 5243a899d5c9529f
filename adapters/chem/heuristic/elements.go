package heuristic

// Standard atomic weights for elements likely to appear in screening compounds
var atomicWeights = map[string]float64{
	"H": 1.008, "He": 4.003, "Li": 6.941, "Be": 9.012, "B": 10.812, "C": 12.011,
	"N": 14.007, "O": 15.999, "F": 18.998, "Ne": 20.180, "Na": 22.990, "Mg": 24.305,
	"Al": 26.982, "Si": 28.086, "P": 30.974, "S": 32.067, "Cl": 35.453, "Ar": 39.948,
	"K": 39.098, "Ca": 40.078, "Ti": 47.867, "V": 50.942, "Cr": 51.996, "Mn": 54.938,
	"Fe": 55.845, "Co": 58.933, "Ni": 58.693, "Cu": 63.546, "Zn": 65.390, "Ga": 69.723,
	"Ge": 72.610, "As": 74.922, "Se": 78.960, "Br": 79.904, "Kr": 83.800, "Rb": 85.468,
	"Sr": 87.620, "Zr": 91.224, "Mo": 95.940, "Ru": 101.070, "Rh": 102.906, "Pd": 106.420,
	"Ag": 107.868, "Cd": 112.411, "In": 114.818, "Sn": 118.710, "Sb": 121.760, "Te": 127.600,
	"I": 126.904, "Xe": 131.290, "Cs": 132.905, "Ba": 137.327, "Gd": 157.250, "W": 183.840,
	"Re": 186.207, "Os": 190.230, "Ir": 192.217, "Pt": 195.078, "Au": 196.967, "Hg": 200.590,
	"Tl": 204.383, "Pb": 207.200, "Bi": 208.980,
}

// defaultValences drive implicit hydrogen counts for the organic subset
var defaultValences = map[string][]int{
	"B":  {3},
	"C":  {4},
	"N":  {3, 5},
	"O":  {2},
	"P":  {3, 5},
	"S":  {2, 4, 6},
	"F":  {1},
	"Cl": {1},
	"Br": {1},
	"I":  {1},
}

// aromaticSymbols maps lowercase SMILES atoms to their element
var aromaticSymbols = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S", "se": "Se", "as": "As",
}

// Atom-type contributions to the octanol-water partition coefficient. These
// follow the Wildman-Crippen scheme at a coarse atom-type resolution.
const (
	logPCarbon          = 0.1441
	logPCarbonHetero    = -0.2035
	logPAromaticC       = 0.1581
	logPAromaticCHetero = 0.1360
	logPAmineNH2        = -1.0190
	logPAmineNH         = -0.7096
	logPAmineN          = -0.3187
	logPAromaticN       = -0.4806
	logPChargedN        = -1.0190
	logPHydroxylO       = -0.2893
	logPCarbonylO       = -0.1526
	logPEtherO          = -0.0684
	logPAromaticO       = 0.1552
	logPChargedO        = -1.3260
	logPSulfur          = 0.6482
	logPAromaticS       = 0.6237
	logPPhosphorus      = 0.8612
	logPFluorine        = 0.4202
	logPChlorine        = 0.6895
	logPBromine         = 0.8456
	logPIodine          = 0.8857
	logPHydrocarbonH    = 0.1230
	logPHydroxylH       = -0.2677
	logPAmineH          = 0.2142
)

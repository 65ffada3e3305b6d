package ledmap

// v1Locations is the board wiring of hardware V1_0, index ledNum-1.
// Chip indexes follow v1Chips.
var v1Locations = [...]Location{
	{Chip: 0, Page: 1, R: 0x8D, G: 0x8F, B: 0x8E}, // 1
	{Chip: 0, Page: 1, R: 0x96, G: 0x98, B: 0x97},
	{Chip: 0, Page: 1, R: 0x9F, G: 0xA1, B: 0xA0},
	{Chip: 0, Page: 1, R: 0xA8, G: 0xAA, B: 0xA9},
	{Chip: 0, Page: 1, R: 0x84, G: 0x86, B: 0x85},
	{Chip: 0, Page: 1, R: 0x7B, G: 0x7D, B: 0x7C},
	{Chip: 0, Page: 1, R: 0x72, G: 0x74, B: 0x73},
	{Chip: 0, Page: 1, R: 0x69, G: 0x6B, B: 0x6A},
	{Chip: 0, Page: 1, R: 0x60, G: 0x62, B: 0x61},
	{Chip: 0, Page: 1, R: 0x8A, G: 0x8C, B: 0x8B}, // 10
	{Chip: 0, Page: 1, R: 0x93, G: 0x95, B: 0x94},
	{Chip: 0, Page: 1, R: 0x9C, G: 0x9E, B: 0x9D},
	{Chip: 0, Page: 1, R: 0xA5, G: 0xA7, B: 0xA6},
	{Chip: 0, Page: 1, R: 0x81, G: 0x83, B: 0x82},
	{Chip: 0, Page: 1, R: 0x78, G: 0x7A, B: 0x79},
	{Chip: 0, Page: 1, R: 0x6F, G: 0x71, B: 0x70},
	{Chip: 0, Page: 1, R: 0x66, G: 0x68, B: 0x67},
	{Chip: 0, Page: 1, R: 0x5D, G: 0x5F, B: 0x5E},
	{Chip: 0, Page: 1, R: 0x87, G: 0x88, B: 0x89},
	{Chip: 0, Page: 1, R: 0x90, G: 0x91, B: 0x92}, // 20
	{Chip: 0, Page: 1, R: 0x99, G: 0x9A, B: 0x9B},
	{Chip: 0, Page: 1, R: 0xA2, G: 0xA3, B: 0xA4},
	{Chip: 0, Page: 1, R: 0x7E, G: 0x7F, B: 0x80},
	{Chip: 0, Page: 1, R: 0x75, G: 0x76, B: 0x77},
	{Chip: 0, Page: 1, R: 0x6C, G: 0x6D, B: 0x6E},
	{Chip: 0, Page: 1, R: 0x63, G: 0x64, B: 0x65},
	{Chip: 0, Page: 1, R: 0x5A, G: 0x5B, B: 0x5C},
	{Chip: 0, Page: 0, R: 0xB1, G: 0xB2, B: 0xB3},
	{Chip: 0, Page: 1, R: 0x1B, G: 0x1C, B: 0x1D},
	{Chip: 0, Page: 1, R: 0x39, G: 0x3A, B: 0x3B}, // 30
	{Chip: 0, Page: 1, R: 0x57, G: 0x58, B: 0x59},
	{Chip: 0, Page: 0, R: 0x93, G: 0x94, B: 0x95},
	{Chip: 0, Page: 0, R: 0x75, G: 0x76, B: 0x77},
	{Chip: 0, Page: 0, R: 0x57, G: 0x58, B: 0x59},
	{Chip: 0, Page: 0, R: 0x39, G: 0x3A, B: 0x3B},
	{Chip: 0, Page: 0, R: 0x1B, G: 0x1C, B: 0x1D},
	{Chip: 0, Page: 0, R: 0xAE, G: 0xAF, B: 0xB0},
	{Chip: 0, Page: 1, R: 0x18, G: 0x19, B: 0x1A},
	{Chip: 0, Page: 1, R: 0x36, G: 0x37, B: 0x38},
	{Chip: 0, Page: 1, R: 0x54, G: 0x55, B: 0x56}, // 40
	{Chip: 0, Page: 0, R: 0x90, G: 0x91, B: 0x92},
	{Chip: 0, Page: 0, R: 0x72, G: 0x73, B: 0x74},
	{Chip: 0, Page: 0, R: 0x54, G: 0x55, B: 0x56},
	{Chip: 0, Page: 0, R: 0x36, G: 0x37, B: 0x38},
	{Chip: 0, Page: 0, R: 0x18, G: 0x19, B: 0x1A},
	{Chip: 0, Page: 0, R: 0xAB, G: 0xAC, B: 0xAD},
	{Chip: 0, Page: 1, R: 0x15, G: 0x16, B: 0x17},
	{Chip: 0, Page: 1, R: 0x33, G: 0x34, B: 0x35},
	{Chip: 0, Page: 1, R: 0x51, G: 0x52, B: 0x53},
	{Chip: 0, Page: 0, R: 0x8D, G: 0x8E, B: 0x8F}, // 50
	{Chip: 0, Page: 0, R: 0x6F, G: 0x70, B: 0x71},
	{Chip: 0, Page: 0, R: 0x51, G: 0x52, B: 0x53},
	{Chip: 0, Page: 0, R: 0x33, G: 0x34, B: 0x35},
	{Chip: 0, Page: 0, R: 0x15, G: 0x16, B: 0x17},
	{Chip: 0, Page: 0, R: 0xA8, G: 0xAA, B: 0xA9},
	{Chip: 0, Page: 1, R: 0x12, G: 0x14, B: 0x13},
	{Chip: 0, Page: 1, R: 0x30, G: 0x32, B: 0x31},
	{Chip: 0, Page: 1, R: 0x4E, G: 0x50, B: 0x4F},
	{Chip: 0, Page: 0, R: 0x8A, G: 0x8C, B: 0x8B},
	{Chip: 0, Page: 0, R: 0x6C, G: 0x6E, B: 0x6D}, // 60
	{Chip: 0, Page: 0, R: 0x4E, G: 0x50, B: 0x4F},
	{Chip: 0, Page: 0, R: 0x30, G: 0x32, B: 0x31},
	{Chip: 0, Page: 0, R: 0x12, G: 0x14, B: 0x13},
	{Chip: 0, Page: 0, R: 0xA2, G: 0xA3, B: 0xA4},
	{Chip: 0, Page: 1, R: 0x0C, G: 0x0D, B: 0x0E},
	{Chip: 0, Page: 1, R: 0x2A, G: 0x2B, B: 0x2C},
	{Chip: 0, Page: 1, R: 0x48, G: 0x49, B: 0x4A},
	{Chip: 0, Page: 0, R: 0x84, G: 0x85, B: 0x86},
	{Chip: 0, Page: 0, R: 0x66, G: 0x67, B: 0x68},
	{Chip: 0, Page: 0, R: 0x48, G: 0x49, B: 0x4A}, // 70
	{Chip: 0, Page: 0, R: 0x2A, G: 0x2B, B: 0x2C},
	{Chip: 0, Page: 0, R: 0x0C, G: 0x0D, B: 0x0E},
	{Chip: 0, Page: 0, R: 0xA5, G: 0xA6, B: 0xA7},
	{Chip: 0, Page: 1, R: 0x0F, G: 0x10, B: 0x11},
	{Chip: 0, Page: 1, R: 0x2D, G: 0x2E, B: 0x2F},
	{Chip: 0, Page: 1, R: 0x4B, G: 0x4C, B: 0x4D},
	{Chip: 0, Page: 0, R: 0x87, G: 0x88, B: 0x89},
	{Chip: 0, Page: 0, R: 0x69, G: 0x6A, B: 0x6B},
	{Chip: 0, Page: 0, R: 0x4B, G: 0x4C, B: 0x4D},
	{Chip: 0, Page: 0, R: 0x2D, G: 0x2E, B: 0x2F}, // 80
	{Chip: 0, Page: 0, R: 0x0F, G: 0x10, B: 0x11},
	{Chip: 0, Page: 0, R: 0x99, G: 0x9A, B: 0x9B},
	{Chip: 0, Page: 1, R: 0x03, G: 0x04, B: 0x05},
	{Chip: 0, Page: 1, R: 0x21, G: 0x22, B: 0x23},
	{Chip: 0, Page: 1, R: 0x3F, G: 0x40, B: 0x41},
	{Chip: 0, Page: 0, R: 0x7B, G: 0x7C, B: 0x7D},
	{Chip: 0, Page: 0, R: 0x5D, G: 0x5E, B: 0x5F},
	{Chip: 0, Page: 0, R: 0x3F, G: 0x40, B: 0x41},
	{Chip: 0, Page: 0, R: 0x21, G: 0x22, B: 0x23},
	{Chip: 0, Page: 0, R: 0x03, G: 0x04, B: 0x05}, // 90
	{Chip: 0, Page: 0, R: 0x9C, G: 0x9D, B: 0x9E},
	{Chip: 0, Page: 1, R: 0x06, G: 0x07, B: 0x08},
	{Chip: 0, Page: 1, R: 0x24, G: 0x25, B: 0x26},
	{Chip: 0, Page: 1, R: 0x42, G: 0x43, B: 0x44},
	{Chip: 0, Page: 0, R: 0x7E, G: 0x7F, B: 0x80},
	{Chip: 0, Page: 0, R: 0x60, G: 0x61, B: 0x62},
	{Chip: 0, Page: 0, R: 0x42, G: 0x43, B: 0x44},
	{Chip: 0, Page: 0, R: 0x24, G: 0x25, B: 0x26},
	{Chip: 0, Page: 0, R: 0x06, G: 0x07, B: 0x08},
	{Chip: 0, Page: 0, R: 0x9F, G: 0xA0, B: 0xA1}, // 100
	{Chip: 0, Page: 1, R: 0x09, G: 0x0A, B: 0x0B},
	{Chip: 0, Page: 1, R: 0x27, G: 0x28, B: 0x29},
	{Chip: 0, Page: 1, R: 0x45, G: 0x46, B: 0x47},
	{Chip: 0, Page: 0, R: 0x81, G: 0x82, B: 0x83},
	{Chip: 0, Page: 0, R: 0x63, G: 0x64, B: 0x65},
	{Chip: 0, Page: 0, R: 0x45, G: 0x46, B: 0x47},
	{Chip: 0, Page: 0, R: 0x27, G: 0x28, B: 0x29},
	{Chip: 0, Page: 0, R: 0x09, G: 0x0A, B: 0x0B},
	{Chip: 0, Page: 0, R: 0x96, G: 0x97, B: 0x98},
	{Chip: 0, Page: 1, R: 0x00, G: 0x01, B: 0x02}, // 110
	{Chip: 0, Page: 1, R: 0x1E, G: 0x1F, B: 0x20},
	{Chip: 0, Page: 1, R: 0x3C, G: 0x3D, B: 0x3E},
	{Chip: 0, Page: 0, R: 0x78, G: 0x79, B: 0x7A},
	{Chip: 0, Page: 0, R: 0x5A, G: 0x5B, B: 0x5C},
	{Chip: 0, Page: 0, R: 0x3C, G: 0x3D, B: 0x3E},
	{Chip: 0, Page: 0, R: 0x1E, G: 0x1F, B: 0x20},
	{Chip: 0, Page: 0, R: 0x00, G: 0x01, B: 0x02},
	{Chip: 1, Page: 1, R: 0xA2, G: 0xA3, B: 0xA4},
	{Chip: 1, Page: 1, R: 0x87, G: 0x88, B: 0x89},
	{Chip: 1, Page: 1, R: 0x7E, G: 0x7F, B: 0x80}, // 120
	{Chip: 1, Page: 1, R: 0x75, G: 0x76, B: 0x77},
	{Chip: 1, Page: 1, R: 0x6C, G: 0x6D, B: 0x6E},
	{Chip: 1, Page: 1, R: 0x63, G: 0x64, B: 0x65},
	{Chip: 1, Page: 1, R: 0x5A, G: 0x5B, B: 0x5C},
	{Chip: 1, Page: 1, R: 0x90, G: 0x91, B: 0x92},
	{Chip: 1, Page: 1, R: 0x99, G: 0x9A, B: 0x9B},
	{Chip: 1, Page: 1, R: 0x51, G: 0x52, B: 0x53},
	{Chip: 1, Page: 0, R: 0xAB, G: 0xAC, B: 0xAD},
	{Chip: 1, Page: 0, R: 0x8D, G: 0x8E, B: 0x8F},
	{Chip: 1, Page: 0, R: 0x6F, G: 0x70, B: 0x71}, // 130
	{Chip: 1, Page: 0, R: 0x51, G: 0x52, B: 0x53},
	{Chip: 1, Page: 0, R: 0x33, G: 0x34, B: 0x35},
	{Chip: 1, Page: 0, R: 0x15, G: 0x16, B: 0x17},
	{Chip: 1, Page: 1, R: 0x15, G: 0x16, B: 0x17},
	{Chip: 1, Page: 1, R: 0x33, G: 0x34, B: 0x35},
	{Chip: 1, Page: 1, R: 0x57, G: 0x58, B: 0x59},
	{Chip: 1, Page: 0, R: 0xB1, G: 0xB2, B: 0xB3},
	{Chip: 1, Page: 0, R: 0x93, G: 0x94, B: 0x95},
	{Chip: 1, Page: 0, R: 0x75, G: 0x76, B: 0x77},
	{Chip: 1, Page: 0, R: 0x57, G: 0x58, B: 0x59}, // 140
	{Chip: 1, Page: 0, R: 0x39, G: 0x3A, B: 0x3B},
	{Chip: 1, Page: 0, R: 0x1B, G: 0x1C, B: 0x1D},
	{Chip: 1, Page: 1, R: 0x1B, G: 0x1C, B: 0x1D},
	{Chip: 1, Page: 1, R: 0x39, G: 0x3A, B: 0x3B},
	{Chip: 1, Page: 1, R: 0xA8, G: 0xA9, B: 0xAA},
	{Chip: 1, Page: 1, R: 0x8D, G: 0x8E, B: 0x8F},
	{Chip: 1, Page: 1, R: 0x84, G: 0x85, B: 0x86},
	{Chip: 1, Page: 1, R: 0x7B, G: 0x7C, B: 0x7D},
	{Chip: 1, Page: 1, R: 0x72, G: 0x73, B: 0x74},
	{Chip: 1, Page: 1, R: 0x69, G: 0x6A, B: 0x6B}, // 150
	{Chip: 1, Page: 1, R: 0x60, G: 0x61, B: 0x62},
	{Chip: 1, Page: 1, R: 0x96, G: 0x97, B: 0x98},
	{Chip: 1, Page: 1, R: 0x9F, G: 0xA0, B: 0xA1},
	{Chip: 1, Page: 1, R: 0xA5, G: 0xA6, B: 0xA7},
	{Chip: 1, Page: 1, R: 0x8A, G: 0x8B, B: 0x8C},
	{Chip: 1, Page: 1, R: 0x81, G: 0x82, B: 0x83},
	{Chip: 1, Page: 1, R: 0x78, G: 0x79, B: 0x7A},
	{Chip: 1, Page: 1, R: 0x6F, G: 0x70, B: 0x71},
	{Chip: 1, Page: 1, R: 0x66, G: 0x67, B: 0x68},
	{Chip: 1, Page: 1, R: 0x5D, G: 0x5E, B: 0x5F}, // 160
	{Chip: 1, Page: 1, R: 0x93, G: 0x94, B: 0x95},
	{Chip: 1, Page: 1, R: 0x9C, G: 0x9D, B: 0x9E},
	{Chip: 1, Page: 1, R: 0x54, G: 0x55, B: 0x56},
	{Chip: 1, Page: 0, R: 0xAE, G: 0xAF, B: 0xB0},
	{Chip: 1, Page: 0, R: 0x90, G: 0x91, B: 0x92},
	{Chip: 1, Page: 0, R: 0x72, G: 0x73, B: 0x74},
	{Chip: 1, Page: 0, R: 0x54, G: 0x55, B: 0x56},
	{Chip: 1, Page: 0, R: 0x36, G: 0x37, B: 0x38},
	{Chip: 1, Page: 0, R: 0x18, G: 0x19, B: 0x1A},
	{Chip: 1, Page: 1, R: 0x18, G: 0x19, B: 0x1A}, // 170
	{Chip: 1, Page: 1, R: 0x36, G: 0x37, B: 0x38},
	{Chip: 1, Page: 1, R: 0x4E, G: 0x4F, B: 0x50},
	{Chip: 1, Page: 0, R: 0xA8, G: 0xA9, B: 0xAA},
	{Chip: 1, Page: 0, R: 0x8A, G: 0x8B, B: 0x8C},
	{Chip: 1, Page: 0, R: 0x6C, G: 0x6D, B: 0x6E},
	{Chip: 1, Page: 0, R: 0x4E, G: 0x4F, B: 0x50},
	{Chip: 1, Page: 0, R: 0x30, G: 0x31, B: 0x32},
	{Chip: 1, Page: 0, R: 0x12, G: 0x13, B: 0x14},
	{Chip: 1, Page: 1, R: 0x12, G: 0x13, B: 0x14},
	{Chip: 1, Page: 1, R: 0x30, G: 0x31, B: 0x32}, // 180
	{Chip: 1, Page: 1, R: 0x4B, G: 0x4C, B: 0x4D},
	{Chip: 1, Page: 0, R: 0xA5, G: 0xA6, B: 0xA7},
	{Chip: 1, Page: 0, R: 0x87, G: 0x88, B: 0x89},
	{Chip: 1, Page: 0, R: 0x69, G: 0x6A, B: 0x6B},
	{Chip: 1, Page: 0, R: 0x4B, G: 0x4C, B: 0x4D},
	{Chip: 1, Page: 0, R: 0x2D, G: 0x2E, B: 0x2F},
	{Chip: 1, Page: 0, R: 0x0F, G: 0x10, B: 0x11},
	{Chip: 1, Page: 1, R: 0x0F, G: 0x10, B: 0x11},
	{Chip: 1, Page: 1, R: 0x2D, G: 0x2E, B: 0x2F},
	{Chip: 1, Page: 1, R: 0x45, G: 0x46, B: 0x47}, // 190
	{Chip: 1, Page: 0, R: 0x9F, G: 0xA0, B: 0xA1},
	{Chip: 1, Page: 0, R: 0x81, G: 0x82, B: 0x83},
	{Chip: 1, Page: 0, R: 0x63, G: 0x64, B: 0x65},
	{Chip: 1, Page: 0, R: 0x45, G: 0x46, B: 0x47},
	{Chip: 1, Page: 0, R: 0x27, G: 0x28, B: 0x29},
	{Chip: 1, Page: 0, R: 0x09, G: 0x0A, B: 0x0B},
	{Chip: 1, Page: 1, R: 0x09, G: 0x0A, B: 0x0B},
	{Chip: 1, Page: 1, R: 0x27, G: 0x28, B: 0x29},
	{Chip: 1, Page: 1, R: 0x3F, G: 0x40, B: 0x41},
	{Chip: 1, Page: 0, R: 0x99, G: 0x9A, B: 0x9B}, // 200
	{Chip: 1, Page: 0, R: 0x7B, G: 0x7C, B: 0x7D},
	{Chip: 1, Page: 0, R: 0x5D, G: 0x5E, B: 0x5F},
	{Chip: 1, Page: 0, R: 0x3F, G: 0x40, B: 0x41},
	{Chip: 1, Page: 0, R: 0x21, G: 0x22, B: 0x23},
	{Chip: 1, Page: 0, R: 0x03, G: 0x04, B: 0x05},
	{Chip: 1, Page: 1, R: 0x03, G: 0x04, B: 0x05},
	{Chip: 1, Page: 1, R: 0x21, G: 0x22, B: 0x23},
	{Chip: 1, Page: 1, R: 0x48, G: 0x49, B: 0x4A},
	{Chip: 1, Page: 0, R: 0xA2, G: 0xA3, B: 0xA4},
	{Chip: 1, Page: 0, R: 0x84, G: 0x85, B: 0x86}, // 210
	{Chip: 1, Page: 0, R: 0x66, G: 0x67, B: 0x68},
	{Chip: 1, Page: 0, R: 0x48, G: 0x49, B: 0x4A},
	{Chip: 1, Page: 0, R: 0x2A, G: 0x2B, B: 0x2C},
	{Chip: 1, Page: 0, R: 0x0C, G: 0x0D, B: 0x0E},
	{Chip: 1, Page: 1, R: 0x0C, G: 0x0D, B: 0x0E},
	{Chip: 1, Page: 1, R: 0x2A, G: 0x2B, B: 0x2C},
	{Chip: 1, Page: 1, R: 0x44, G: 0x42, B: 0x43},
	{Chip: 1, Page: 0, R: 0x9E, G: 0x9C, B: 0x9D},
	{Chip: 1, Page: 0, R: 0x80, G: 0x7E, B: 0x7F},
	{Chip: 1, Page: 0, R: 0x62, G: 0x60, B: 0x61}, // 220
	{Chip: 1, Page: 0, R: 0x44, G: 0x42, B: 0x43},
	{Chip: 1, Page: 0, R: 0x26, G: 0x24, B: 0x25},
	{Chip: 1, Page: 0, R: 0x08, G: 0x06, B: 0x07},
	{Chip: 1, Page: 1, R: 0x08, G: 0x06, B: 0x07},
	{Chip: 1, Page: 1, R: 0x26, G: 0x24, B: 0x25},
	{Chip: 1, Page: 1, R: 0x3C, G: 0x3D, B: 0x3E},
	{Chip: 1, Page: 0, R: 0x96, G: 0x97, B: 0x98},
	{Chip: 1, Page: 0, R: 0x78, G: 0x79, B: 0x7A},
	{Chip: 1, Page: 0, R: 0x5A, G: 0x5B, B: 0x5C},
	{Chip: 1, Page: 0, R: 0x3C, G: 0x3D, B: 0x3E}, // 230
	{Chip: 1, Page: 0, R: 0x1E, G: 0x1F, B: 0x20},
	{Chip: 1, Page: 0, R: 0x00, G: 0x01, B: 0x02},
	{Chip: 1, Page: 1, R: 0x00, G: 0x01, B: 0x02},
	{Chip: 1, Page: 1, R: 0x1E, G: 0x1F, B: 0x20},
	{Chip: 2, Page: 1, R: 0x3E, G: 0x3D, B: 0x3C},
	{Chip: 2, Page: 0, R: 0x02, G: 0x01, B: 0x00},
	{Chip: 2, Page: 0, R: 0x20, G: 0x1F, B: 0x1E},
	{Chip: 2, Page: 0, R: 0x3E, G: 0x3D, B: 0x3C},
	{Chip: 2, Page: 0, R: 0x5C, G: 0x5B, B: 0x5A},
	{Chip: 2, Page: 0, R: 0x7A, G: 0x79, B: 0x78}, // 240
	{Chip: 2, Page: 0, R: 0x98, G: 0x97, B: 0x96},
	{Chip: 2, Page: 1, R: 0x02, G: 0x01, B: 0x00},
	{Chip: 2, Page: 1, R: 0x20, G: 0x1F, B: 0x1E},
	{Chip: 2, Page: 1, R: 0x41, G: 0x40, B: 0x3F},
	{Chip: 2, Page: 0, R: 0x05, G: 0x04, B: 0x03},
	{Chip: 2, Page: 0, R: 0x23, G: 0x22, B: 0x21},
	{Chip: 2, Page: 0, R: 0x41, G: 0x40, B: 0x3F},
	{Chip: 2, Page: 0, R: 0x5F, G: 0x5E, B: 0x5D},
	{Chip: 2, Page: 0, R: 0x7D, G: 0x7C, B: 0x7B},
	{Chip: 2, Page: 0, R: 0x9B, G: 0x9A, B: 0x99}, // 250
	{Chip: 2, Page: 1, R: 0x05, G: 0x04, B: 0x03},
	{Chip: 2, Page: 1, R: 0x23, G: 0x22, B: 0x21},
	{Chip: 2, Page: 1, R: 0x44, G: 0x43, B: 0x42},
	{Chip: 2, Page: 0, R: 0x08, G: 0x07, B: 0x06},
	{Chip: 2, Page: 0, R: 0x26, G: 0x25, B: 0x24},
	{Chip: 2, Page: 0, R: 0x44, G: 0x43, B: 0x42},
	{Chip: 2, Page: 0, R: 0x62, G: 0x61, B: 0x60},
	{Chip: 2, Page: 0, R: 0x80, G: 0x7F, B: 0x7E},
	{Chip: 2, Page: 0, R: 0x9E, G: 0x9D, B: 0x9C},
	{Chip: 2, Page: 1, R: 0x08, G: 0x07, B: 0x06}, // 260
	{Chip: 2, Page: 1, R: 0x26, G: 0x25, B: 0x24},
	{Chip: 2, Page: 1, R: 0x47, G: 0x46, B: 0x45},
	{Chip: 2, Page: 0, R: 0x0B, G: 0x0A, B: 0x09},
	{Chip: 2, Page: 0, R: 0x29, G: 0x28, B: 0x27},
	{Chip: 2, Page: 0, R: 0x47, G: 0x46, B: 0x45},
	{Chip: 2, Page: 0, R: 0x65, G: 0x64, B: 0x63},
	{Chip: 2, Page: 0, R: 0x83, G: 0x82, B: 0x81},
	{Chip: 2, Page: 0, R: 0xA1, G: 0xA0, B: 0x9F},
	{Chip: 2, Page: 1, R: 0x0B, G: 0x0A, B: 0x09},
	{Chip: 2, Page: 1, R: 0x29, G: 0x28, B: 0x27}, // 270
	{Chip: 2, Page: 1, R: 0x4A, G: 0x49, B: 0x48},
	{Chip: 2, Page: 0, R: 0x0E, G: 0x0D, B: 0x0C},
	{Chip: 2, Page: 0, R: 0x2C, G: 0x2B, B: 0x2A},
	{Chip: 2, Page: 0, R: 0x4A, G: 0x49, B: 0x48},
	{Chip: 2, Page: 0, R: 0x68, G: 0x67, B: 0x66},
	{Chip: 2, Page: 0, R: 0x86, G: 0x85, B: 0x84},
	{Chip: 2, Page: 0, R: 0xA4, G: 0xA3, B: 0xA2},
	{Chip: 2, Page: 1, R: 0x0E, G: 0x0D, B: 0x0C},
	{Chip: 2, Page: 1, R: 0x2C, G: 0x2B, B: 0x2A},
	{Chip: 2, Page: 1, R: 0x50, G: 0x4F, B: 0x4E}, // 280
	{Chip: 2, Page: 0, R: 0x14, G: 0x13, B: 0x12},
	{Chip: 2, Page: 0, R: 0x32, G: 0x31, B: 0x30},
	{Chip: 2, Page: 0, R: 0x50, G: 0x4F, B: 0x4E},
	{Chip: 2, Page: 0, R: 0x6E, G: 0x6D, B: 0x6C},
	{Chip: 2, Page: 0, R: 0x8C, G: 0x8B, B: 0x8A},
	{Chip: 2, Page: 0, R: 0xAA, G: 0xA9, B: 0xA8},
	{Chip: 2, Page: 1, R: 0x14, G: 0x13, B: 0x12},
	{Chip: 2, Page: 1, R: 0x32, G: 0x31, B: 0x30},
	{Chip: 2, Page: 1, R: 0x53, G: 0x52, B: 0x51},
	{Chip: 2, Page: 0, R: 0x17, G: 0x16, B: 0x15}, // 290
	{Chip: 2, Page: 0, R: 0x35, G: 0x34, B: 0x33},
	{Chip: 2, Page: 0, R: 0x53, G: 0x52, B: 0x51},
	{Chip: 2, Page: 0, R: 0x71, G: 0x70, B: 0x6F},
	{Chip: 2, Page: 0, R: 0x8F, G: 0x8E, B: 0x8D},
	{Chip: 2, Page: 0, R: 0xAD, G: 0xAC, B: 0xAB},
	{Chip: 2, Page: 1, R: 0x17, G: 0x16, B: 0x15},
	{Chip: 2, Page: 1, R: 0x35, G: 0x34, B: 0x33},
	{Chip: 2, Page: 1, R: 0x4D, G: 0x4C, B: 0x4B},
	{Chip: 2, Page: 0, R: 0x11, G: 0x10, B: 0x0F},
	{Chip: 2, Page: 0, R: 0x2F, G: 0x2E, B: 0x2D}, // 300
	{Chip: 2, Page: 0, R: 0x4D, G: 0x4C, B: 0x4B},
	{Chip: 2, Page: 0, R: 0x6B, G: 0x6A, B: 0x69},
	{Chip: 2, Page: 0, R: 0x89, G: 0x88, B: 0x87},
	{Chip: 2, Page: 0, R: 0xA7, G: 0xA6, B: 0xA5},
	{Chip: 2, Page: 1, R: 0x11, G: 0x10, B: 0x0F},
	{Chip: 2, Page: 1, R: 0x2F, G: 0x2E, B: 0x2D},
	{Chip: 2, Page: 1, R: 0xA4, G: 0xA3, B: 0xA2},
	{Chip: 2, Page: 1, R: 0x5C, G: 0x5B, B: 0x5A},
	{Chip: 2, Page: 1, R: 0x65, G: 0x64, B: 0x63},
	{Chip: 2, Page: 1, R: 0x6E, G: 0x6D, B: 0x6C}, // 310
	{Chip: 2, Page: 1, R: 0x77, G: 0x76, B: 0x75},
	{Chip: 2, Page: 1, R: 0x80, G: 0x7F, B: 0x7E},
	{Chip: 2, Page: 1, R: 0x89, G: 0x88, B: 0x87},
	{Chip: 2, Page: 1, R: 0x92, G: 0x91, B: 0x90},
	{Chip: 2, Page: 1, R: 0x9B, G: 0x9A, B: 0x99},
	{Chip: 2, Page: 1, R: 0x57, G: 0x58, B: 0x59},
	{Chip: 2, Page: 0, R: 0x1B, G: 0x1C, B: 0x1D},
	{Chip: 2, Page: 0, R: 0x39, G: 0x3A, B: 0x3B},
	{Chip: 2, Page: 0, R: 0x57, G: 0x58, B: 0x59},
	{Chip: 2, Page: 0, R: 0x75, G: 0x76, B: 0x77}, // 320
	{Chip: 2, Page: 0, R: 0x93, G: 0x94, B: 0x95},
	{Chip: 2, Page: 0, R: 0xB1, G: 0xB2, B: 0xB3},
	{Chip: 2, Page: 1, R: 0x1B, G: 0x1C, B: 0x1D},
	{Chip: 2, Page: 1, R: 0x39, G: 0x3A, B: 0x3B},
	{Chip: 2, Page: 0, R: 0x74, G: 0x73, B: 0x72},
	{Chip: 2, Page: 0, R: 0x92, G: 0x91, B: 0x90},
}

package models

import "strings"

// worldRegions maps each game world to the logs-service region slug used in
// character queries. Lookup is case-insensitive.
var worldRegions = map[string]string{
	// North America
	"adamantoise": "NA", "cactuar": "NA", "faerie": "NA", "gilgamesh": "NA",
	"jenova": "NA", "midgardsormr": "NA", "sargatanas": "NA", "siren": "NA",
	"balmung": "NA", "brynhildr": "NA", "coeurl": "NA", "diabolos": "NA",
	"goblin": "NA", "malboro": "NA", "mateus": "NA", "zalera": "NA",
	"behemoth": "NA", "excalibur": "NA", "exodus": "NA", "famfrit": "NA",
	"hyperion": "NA", "lamia": "NA", "leviathan": "NA", "ultros": "NA",
	"halicarnassus": "NA", "maduin": "NA", "marilith": "NA", "seraph": "NA",
	"cuchulainn": "NA", "golem": "NA", "kraken": "NA", "rafflesia": "NA",

	// Europe
	"cerberus": "EU", "louisoix": "EU", "moogle": "EU", "omega": "EU",
	"phantom": "EU", "ragnarok": "EU", "sagittarius": "EU", "spriggan": "EU",
	"alpha": "EU", "lich": "EU", "odin": "EU", "phoenix": "EU",
	"raiden": "EU", "shiva": "EU", "twintania": "EU", "zodiark": "EU",

	// Japan
	"aegis": "JP", "atomos": "JP", "carbuncle": "JP", "garuda": "JP",
	"gungnir": "JP", "kujata": "JP", "tonberry": "JP", "typhon": "JP",
	"alexander": "JP", "bahamut": "JP", "durandal": "JP", "fenrir": "JP",
	"ifrit": "JP", "ridill": "JP", "tiamat": "JP", "ultima": "JP",
	"anima": "JP", "asura": "JP", "chocobo": "JP", "hades": "JP",
	"ixion": "JP", "masamune": "JP", "pandaemonium": "JP", "titan": "JP",
	"belias": "JP", "mandragora": "JP", "ramuh": "JP", "shinryu": "JP",
	"unicorn": "JP", "valefor": "JP", "yojimbo": "JP", "zeromus": "JP",

	// Oceania
	"bismarck": "OC", "ravana": "OC", "sephirot": "OC", "sophia": "OC", "zurvan": "OC",
}

// RegionForWorld resolves the region slug for a world name. The second return
// is false when the world is unknown.
func RegionForWorld(world string) (string, bool) {
	region, ok := worldRegions[strings.ToLower(strings.TrimSpace(world))]
	return region, ok
}

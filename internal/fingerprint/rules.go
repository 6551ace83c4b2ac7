package fingerprint

// frameworkDependencyRules maps manifest dependency names to framework tags.
// Unknown dependencies are ignored.
var frameworkDependencyRules = map[string]string{
	"react":          "react",
	"react-dom":      "react",
	"next":           "nextjs",
	"vue":            "vue",
	"nuxt":           "nuxt",
	"express":        "express",
	"fastify":        "fastify",
	"@nestjs/core":   "nestjs",
	"prisma":         "prisma",
	"@prisma/client": "prisma",
	"typeorm":        "typeorm",
	"knex":           "knex",
	"jest":           "jest",
	"vitest":         "vitest",
	"typescript":     "typescript",
}

// frameworkFileRules maps file or directory existence to framework tags.
type frameworkFileRule struct {
	path string
	tag  string
}

var frameworkFileRules = []frameworkFileRule{
	{path: "tsconfig.json", tag: "typescript"},
	{path: "go.mod", tag: "go"},
	{path: "Cargo.toml", tag: "rust"},
	{path: "requirements.txt", tag: "python"},
	{path: "pyproject.toml", tag: "python"},
	{path: "migrations", tag: "migrations"},
	{path: "db/migrations", tag: "migrations"},
	{path: "prisma/migrations", tag: "migrations"},
}

// composeFiles are the filenames that signal container compose usage.
var composeFiles = []string{
	"docker-compose.yml",
	"docker-compose.yaml",
	"compose.yml",
	"compose.yaml",
}

// markerPaths is the fixed list of convention files and directories checked
// by existence only. No content inspection.
var markerPaths = []string{
	"CLAUDE.md",
	".claude",
	"packages",
	"apps",
	"turbo.json",
	"pnpm-workspace.yaml",
	"lerna.json",
	"nx.json",
	"Makefile",
	".devcontainer",
}

// presenceFiles is the fixed list of files recorded as presence flags.
var presenceFiles = []string{
	"package.json",
	"go.mod",
	"tsconfig.json",
	"Dockerfile",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
}

// hiddenAllowList names hidden entries that still count during directory
// enumeration.
var hiddenAllowList = map[string]bool{
	".github": true,
}

/*
Package config manages configuration parsing and validation for zipmerge.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	    +---------+----+----+---------+
	    |         |         |         |
	+---+---+ +---+---+ +---+---+
	| YAML  | |  HCL  | | JSON  |
	+-------+ +-------+ +-------+

🎯 Purpose:
- Loads the run configuration from YAML, HCL or JSON files
- Applies defaults (log file location, retry budget, mode)
- Validates required fields before any archive is touched
- Defines the fixed concurrency limit for batch processing

🔄 Flow:
1. Reads configuration from file (extension selects the format)
2. Parses format-specific syntax
3. Validates configuration values and fills defaults
4. Hands the validated config to the command layer

⚡ Key Responsibilities:
- Configuration parsing
- Default value management
- Mode parsing (normal / validate-only / validate-after)
- Fatal-before-work semantics: a bad config never reaches the runner

📝 Design Philosophy:
The config package is the source of truth for all run parameters. There is
deliberately no global config: the loaded *Config is passed explicitly to
every component that needs it, so tests can construct configs inline and
two runs in one process can't bleed settings into each other.

🔍 Example:

	cfg, err := config.Load(ctx, ".zipmerge.yaml")
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	fmt.Println(cfg.RootFolder, cfg.Mode)
*/
package config

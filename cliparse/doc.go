// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration parsing from CLI flags, environment
variables and an optional .env file.

# Usage

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

# Precedence

CLI flags take precedence over environment variables, which take precedence
over values in .env. A missing .env file is ignored.

# Settings

  - Port (-p / PORT): HTTP port, default 4000
  - DatabaseURL (-d / DATABASE_URL): required
  - DatabaseType (-t / DATABASE_TYPE): sqlite (default) or postgres
  - JWTSecret (-jwt-secret / JWT_SECRET): session signing secret
  - Production (-prod / APP_ENV=production): secure cookies, secret required
  - CORSOrigin (-cors-origin / CORS_ORIGIN): default http://localhost:5173

Outside production the secret falls back to DefaultJWTSecret. In production
a real secret is required and the default is rejected.
*/
package cliparse

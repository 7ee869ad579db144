package postgresql

// migrations returns the versioned schema for the workflow store. Graph and
// result documents are stored as JSONB; the engine only ever touches one run
// row per writer.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS workflows (
				id UUID PRIMARY KEY,
				office_id TEXT NOT NULL,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				version INTEGER NOT NULL DEFAULT 1,
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				graph JSONB,
				variables JSONB,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX IF NOT EXISTS idx_workflows_office_id ON workflows (office_id) WHERE deleted_at IS NULL;
		`,
		2: `
			CREATE TABLE IF NOT EXISTS workflow_runs (
				id UUID PRIMARY KEY,
				workflow_id UUID NOT NULL,
				office_id TEXT NOT NULL,
				status TEXT NOT NULL,
				progress INTEGER NOT NULL DEFAULT 0,
				current_node_id TEXT,
				started_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				completed_at TIMESTAMP WITH TIME ZONE,
				error TEXT,
				result JSONB
			);

			CREATE INDEX IF NOT EXISTS idx_workflow_runs_workflow_id ON workflow_runs (workflow_id);
			CREATE INDEX IF NOT EXISTS idx_workflow_runs_office_id ON workflow_runs (office_id);
		`,
	}
}

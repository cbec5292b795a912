package sqlinline

const QInsertUsageEvent = `--sql d20c4a97-5a9d-4e13-ab39-f0bf0ded60ea
insert into usage_events(id, request_id, event_type, country, success, latency_ms, created_at, properties)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::boolean, $5::int, now(), coalesce($6::jsonb, '{}'::jsonb));
`

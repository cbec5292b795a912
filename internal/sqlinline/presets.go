package sqlinline

const QInsertPreset = `--sql 8d560813-5ba1-456b-b2c6-d4219cc22373
insert into presets(id, name, payload, created_at)
values ($1::uuid, $2::text, $3::jsonb, now())
returning created_at;
`

const QListPresets = `--sql cb2863ab-79b8-460a-8c31-81fdb4baca70
select id, name, payload, created_at
from presets
order by name asc;
`

const QGetPreset = `--sql c2ae61df-dc77-4b0d-b99a-f3273206907e
select id, name, payload, created_at
from presets
where id = $1::uuid;
`

const QDeletePreset = `--sql 1bd96a71-7578-4b0e-977a-8533c692c75e
delete from presets
where id = $1::uuid;
`
